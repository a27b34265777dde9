package gitlog

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bartekus/worklog/internal/gitcmd"
)

// NameRevArgs returns the git name-rev arguments used to resolve branches.
// Hashes are read from stdin; only local and remote branches are considered.
func NameRevArgs() []string {
	return []string{"name-rev", "--stdin", "--refs=refs/heads/*", "--refs=refs/remotes/*"}
}

// NormalizeBranch turns a name-rev description such as
// "(remotes/origin/feature-x~3)" into a plain branch name ("feature-x").
func NormalizeBranch(raw string) string {
	b := strings.Trim(raw, "()")
	switch {
	case strings.HasPrefix(b, "remotes/origin/"):
		b = strings.TrimPrefix(b, "remotes/origin/")
	case strings.HasPrefix(b, "remotes/"):
		b = strings.TrimPrefix(b, "remotes/")
	}
	if i := strings.IndexAny(b, "~^"); i >= 0 {
		b = b[:i]
	}
	return b
}

// ParseNameRev maps each hash in name-rev output to its normalized branch.
// Lines without a name, or whose name normalizes to nothing, are ignored.
func ParseNameRev(output string) map[string]string {
	branches := make(map[string]string)
	for _, line := range splitLines(output) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if b := NormalizeBranch(fields[1]); b != "" {
			branches[fields[0]] = b
		}
	}
	return branches
}

// ResolveBranches asks git which branch each hash descends from, in one
// batched invocation. A failed name-rev degrades to an empty mapping.
func (e *Extractor) ResolveBranches(ctx context.Context, dir string, hashes []string) (map[string]string, error) {
	if len(hashes) == 0 {
		return map[string]string{}, nil
	}

	inv := gitcmd.Invocation{
		Program: e.gitBinary,
		Args:    NameRevArgs(),
		Dir:     dir,
		Stdin:   []byte(strings.Join(hashes, "\n")),
	}
	res, err := e.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		e.logger.Warn("branch resolution failed, commits keep unknown branch",
			slog.String("dir", dir),
			slog.Int("exit_code", res.ExitCode),
			slog.String("stderr", strings.TrimSpace(string(res.Stderr))),
		)
		return map[string]string{}, nil
	}

	return ParseNameRev(string(res.Stdout)), nil
}
