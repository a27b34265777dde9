package repo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bartekus/worklog/internal/gitcmd"
)

// DefaultConcurrency bounds FetchAll and CheckAll when no limit is given.
const DefaultConcurrency = 4

// CommandError reports a git command that ran but exited non-zero.
type CommandError struct {
	Path     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("git %s in %s exited %d", strings.Join(e.Args, " "), e.Path, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Outcome is the result of probing one repository.
type Outcome struct {
	Path string
	// Updates is only meaningful for CheckAll.
	Updates bool
	Err     error
}

// Prober runs network-facing git commands against local repositories.
type Prober struct {
	runner      gitcmd.Runner
	logger      *slog.Logger
	gitBinary   string
	concurrency int
	onDone      func(Outcome)
}

// Option configures a Prober.
type Option func(*Prober)

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithGitBinary overrides the git executable.
func WithGitBinary(bin string) Option {
	return func(p *Prober) {
		if bin != "" {
			p.gitBinary = bin
		}
	}
}

// WithConcurrency sets how many repositories are probed at once.
func WithConcurrency(n int) Option {
	return func(p *Prober) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithOnDone registers a callback invoked as each repository finishes.
// It may be called from several goroutines at once.
func WithOnDone(fn func(Outcome)) Option {
	return func(p *Prober) { p.onDone = fn }
}

// NewProber creates a Prober that executes through runner.
func NewProber(runner gitcmd.Runner, opts ...Option) *Prober {
	p := &Prober{
		runner:      runner,
		logger:      slog.Default(),
		gitBinary:   "git",
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FetchArgs is the argument list used by Fetch.
func FetchArgs() []string { return []string{"fetch", "--all"} }

// CheckArgs is the argument list used by CheckUpdates.
func CheckArgs() []string { return []string{"fetch", "--all", "--dry-run"} }

// Fetch downloads new objects and refs from every remote of path.
func (p *Prober) Fetch(ctx context.Context, path string) error {
	_, err := p.run(ctx, path, FetchArgs())
	return err
}

// CheckUpdates reports whether a dry-run fetch has anything to say. git
// writes ref updates to stderr, so any stderr output counts as "updates
// available"; this can be fooled by warnings.
func (p *Prober) CheckUpdates(ctx context.Context, path string) (bool, error) {
	res, err := p.run(ctx, path, CheckArgs())
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(string(res.Stderr)) != "", nil
}

func (p *Prober) run(ctx context.Context, path string, args []string) (gitcmd.Result, error) {
	res, err := p.runner.Run(ctx, gitcmd.Invocation{Program: p.gitBinary, Args: args, Dir: path})
	if err != nil {
		return gitcmd.Result{}, err
	}
	if !res.Success {
		return res, &CommandError{
			Path:     path,
			Args:     args,
			ExitCode: res.ExitCode,
			Stderr:   strings.TrimSpace(string(res.Stderr)),
		}
	}
	return res, nil
}

// FetchAll fetches every path concurrently. Per-repository failures are
// recorded in the outcomes, not returned; the error is non-nil only when ctx
// ends first.
func (p *Prober) FetchAll(ctx context.Context, paths []string) ([]Outcome, error) {
	return p.each(ctx, paths, func(ctx context.Context, path string) Outcome {
		err := p.Fetch(ctx, path)
		if err != nil {
			p.logger.Warn("fetch failed, using local data", slog.String("path", path), slog.Any("error", err))
		} else {
			p.logger.Debug("fetched", slog.String("path", path))
		}
		return Outcome{Path: path, Err: err}
	})
}

// CheckAll runs CheckUpdates for every path concurrently, with the same
// error semantics as FetchAll.
func (p *Prober) CheckAll(ctx context.Context, paths []string) ([]Outcome, error) {
	return p.each(ctx, paths, func(ctx context.Context, path string) Outcome {
		updates, err := p.CheckUpdates(ctx, path)
		if err != nil {
			p.logger.Warn("update check failed", slog.String("path", path), slog.Any("error", err))
		}
		return Outcome{Path: path, Updates: updates, Err: err}
	})
}

// each runs fn over paths with bounded concurrency. Outcomes keep the order
// of paths.
func (p *Prober) each(ctx context.Context, paths []string, fn func(context.Context, string) Outcome) ([]Outcome, error) {
	out := make([]Outcome, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				out[i] = Outcome{Path: path, Err: err}
				return err
			}
			o := fn(gctx, path)
			out[i] = o
			if p.onDone != nil {
				p.onDone(o)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
