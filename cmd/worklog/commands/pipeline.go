// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/repo"
	"github.com/bartekus/worklog/internal/report"
	"github.com/bartekus/worklog/internal/runstate"
)

// collectFlags are shared by every command that reads commit history.
type collectFlags struct {
	rng    rangeFlags
	repos  repoFlags
	author string
	fetch  bool
}

func (f *collectFlags) register(cmd *cobra.Command) {
	f.rng.register(cmd)
	f.repos.register(cmd)
	cmd.Flags().StringVar(&f.author, "author", "", "only keep commits whose author contains this text (case-insensitive)")
	cmd.Flags().BoolVar(&f.fetch, "fetch", false, "run git fetch --all in every repository first")
}

// collection is the outcome of collect.
type collection struct {
	since   string
	until   string
	commits []gitlog.Commit
}

// collect resolves range and repositories, optionally fetches, extracts and
// filters by author. The run is recorded in the state store either way.
func (a *app) collect(cmd *cobra.Command, command string, f *collectFlags, args []string) (*collection, error) {
	since, until, err := f.rng.resolve(a.now())
	if err != nil {
		return nil, err
	}
	paths, err := f.repos.resolve(a, args)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if f.fetch {
		if err := a.fetchBeforeExtract(ctx, cmd.ErrOrStderr(), paths); err != nil {
			return nil, err
		}
	}

	rec := runstate.NewRecorder()
	opts := []gitlog.Option{
		gitlog.WithLogger(a.logger),
		gitlog.WithGitBinary(a.cfg.GitBinary),
		gitlog.WithObserver(rec),
	}
	progress := &extractProgress{w: cmd.ErrOrStderr()}
	if !a.noProgress {
		opts = append(opts, gitlog.WithObserver(progress))
	}

	commits, err := gitlog.NewExtractor(a.runner, opts...).Extract(ctx, paths, since, until)
	progress.finish()
	a.saveRun(rec.Finish(command, since, until, err))
	if err != nil {
		return nil, classify(err)
	}

	commits = report.FilterAuthor(commits, f.author)
	a.logger.Info("history collected",
		slog.String("since", since),
		slog.String("until", until),
		slog.Int("repositories", len(paths)),
		slog.Int("commits", len(commits)),
	)
	return &collection{since: since, until: until, commits: commits}, nil
}

// fetchBeforeExtract fetches every repository. Failed fetches only warn;
// extraction then works with local data.
func (a *app) fetchBeforeExtract(ctx context.Context, progressOut io.Writer, paths []string) error {
	opts := []repo.Option{
		repo.WithLogger(a.logger),
		repo.WithGitBinary(a.cfg.GitBinary),
		repo.WithConcurrency(a.cfg.FetchConcurrency),
	}
	finish := func() {}
	if !a.noProgress {
		var onDone func(repo.Outcome)
		onDone, finish = probeProgress(progressOut, len(paths), "[cyan]Fetching[reset]")
		opts = append(opts, repo.WithOnDone(onDone))
	}

	_, err := repo.NewProber(a.runner, opts...).FetchAll(ctx, paths)
	finish()
	return err
}

func (a *app) saveRun(last runstate.LastRun) {
	store := runstate.NewStore(a.cfg.StateDir)
	if err := store.WriteLastRun(last); err != nil {
		a.logger.Warn("could not record run state", slog.String("path", store.Path()), slog.Any("error", err))
	}
}
