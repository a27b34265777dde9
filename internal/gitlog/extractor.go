// Package gitlog extracts commit records from local git repositories.
package gitlog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bartekus/worklog/internal/gitcmd"
)

// RepoStatus is the outcome of extracting a single repository.
type RepoStatus string

const (
	RepoOK      RepoStatus = "ok"
	RepoSkipped RepoStatus = "skipped"
	RepoFailed  RepoStatus = "failed"
)

// RepoOutcome describes what happened to one repository during Extract.
type RepoOutcome struct {
	Path    string
	Name    string
	Status  RepoStatus
	Commits int
	Note    string
}

// Observer is notified as Extract walks the repositories.
type Observer interface {
	RepositoryStarted(path string, index, total int)
	RepositoryDone(outcome RepoOutcome)
}

// Extractor runs the log and branch-resolution pipeline over repositories.
type Extractor struct {
	runner    gitcmd.Runner
	logger    *slog.Logger
	gitBinary string
	observers []Observer
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithGitBinary overrides the git executable name or path.
func WithGitBinary(bin string) Option {
	return func(e *Extractor) {
		if bin != "" {
			e.gitBinary = bin
		}
	}
}

// WithObserver registers an observer for per-repository progress.
func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// NewExtractor creates an Extractor that runs git through runner.
func NewExtractor(runner gitcmd.Runner, opts ...Option) *Extractor {
	e := &Extractor{
		runner:    runner,
		logger:    slog.Default(),
		gitBinary: "git",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the commits of every repository in repoPaths between start
// and end (inclusive YYYY-MM-DD dates), concatenated in repository order.
//
// A repository whose git log exits non-zero contributes nothing and is
// skipped. Failing to launch git at all aborts the whole extraction.
func (e *Extractor) Extract(ctx context.Context, repoPaths []string, start, end string) ([]Commit, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}

	all := make([]Commit, 0)
	for i, path := range repoPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, o := range e.observers {
			o.RepositoryStarted(path, i, len(repoPaths))
		}

		commits, outcome, err := e.extractRepo(ctx, path, start, end)
		for _, o := range e.observers {
			o.RepositoryDone(outcome)
		}
		if err != nil {
			return nil, err
		}

		all = append(all, commits...)
	}

	e.logger.Debug("extraction finished",
		slog.Int("repositories", len(repoPaths)),
		slog.Int("commits", len(all)),
	)
	return all, nil
}

func (e *Extractor) extractRepo(ctx context.Context, path, start, end string) ([]Commit, RepoOutcome, error) {
	name := RepoName(path)
	outcome := RepoOutcome{Path: path, Name: name}
	logger := e.logger.With(slog.String("repo", name))

	res, err := e.runner.Run(ctx, gitcmd.Invocation{
		Program: e.gitBinary,
		Args:    LogArgs(start, end),
		Dir:     path,
	})
	if err != nil {
		outcome.Status = RepoFailed
		outcome.Note = err.Error()
		return nil, outcome, fmt.Errorf("git log in %s: %w", name, err)
	}
	if !res.Success {
		stderr := strings.TrimSpace(string(res.Stderr))
		logger.Warn("git log failed, skipping repository",
			slog.Int("exit_code", res.ExitCode),
			slog.String("stderr", stderr),
		)
		outcome.Status = RepoSkipped
		outcome.Note = stderr
		return nil, outcome, nil
	}

	commits, hashes := ParseLog(string(res.Stdout), name)
	logger.Debug("parsed log", slog.Int("commits", len(commits)))

	if len(commits) > 0 {
		branches, err := e.ResolveBranches(ctx, path, hashes)
		if err != nil {
			outcome.Status = RepoFailed
			outcome.Note = err.Error()
			return nil, outcome, fmt.Errorf("git name-rev in %s: %w", name, err)
		}
		ApplyBranches(commits, branches)
	}

	outcome.Status = RepoOK
	outcome.Commits = len(commits)
	return commits, outcome, nil
}
