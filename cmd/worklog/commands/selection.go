// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bartekus/worklog/internal/config"
	"github.com/bartekus/worklog/internal/gitlog"
	"github.com/bartekus/worklog/internal/repo"
)

// rangeFlags is the --since/--until pair. Empty values default to the first
// day of the current month and today.
type rangeFlags struct {
	since string
	until string
}

func (r *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.since, "since", "", "first day to include, YYYY-MM-DD (default: first day of this month)")
	cmd.Flags().StringVar(&r.until, "until", "", "last day to include, YYYY-MM-DD (default: today)")
}

func (r *rangeFlags) resolve(now time.Time) (string, string, error) {
	since, until := r.since, r.until
	if since == "" {
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(gitlog.DateLayout)
	}
	if until == "" {
		until = now.Format(gitlog.DateLayout)
	}
	if err := gitlog.ValidateRange(since, until); err != nil {
		return "", "", classify(err)
	}
	return since, until, nil
}

// repoFlags selects repositories by group when no paths are given.
type repoFlags struct {
	groups []string
}

func (r *repoFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&r.groups, "group", nil, "configured repository group to use (repeatable; default: all selected groups)")
}

// resolve turns positional paths or configured groups into repository paths.
// Paths that are not repositories are logged and dropped.
func (r *repoFlags) resolve(a *app, args []string) ([]string, error) {
	var paths []string
	if len(args) > 0 {
		paths = config.Dedup(args)
	} else {
		var err error
		paths, err = a.cfg.SelectRepos(r.groups)
		if err != nil {
			return nil, classify(err)
		}
	}
	if len(paths) == 0 {
		return nil, usageErrorf("no repositories: pass paths or configure a selected group")
	}

	repos, rejected := repo.Partition(paths)
	for _, p := range rejected {
		a.logger.Warn("not a git repository, skipping", slog.String("path", p))
	}
	if len(repos) == 0 {
		return nil, usageErrorf("none of the %d given paths is a git repository", len(paths))
	}
	return repos, nil
}
