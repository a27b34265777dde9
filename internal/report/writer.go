package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/worklog/internal/gitlog"
)

const (
	// MultiProjectLabel names reports that span more than one repository.
	MultiProjectLabel = "AllProjects"
	// NoProjectLabel names reports with no commits at all.
	NoProjectLabel = "Unknown"

	totalPrefix = "TOTAL"
)

// WriteError reports a failed directory or file operation.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Written lists what a Writer produced.
type Written struct {
	Dir   string
	Total string
	// Authors maps author name to the report file path.
	Authors map[string]string
}

// Writer renders reports and stores them under a root directory.
type Writer struct {
	root   string
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at root.
func NewWriter(root string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{root: root, logger: logger}
}

// Write stores one report per author and one total report for commits in
// <root>/<start>~<end>. Existing files of the same name are replaced.
func (w *Writer) Write(commits []gitlog.Commit, start, end string) (*Written, error) {
	dir := filepath.Join(w.root, start+"~"+end)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Err: err}
	}

	rng := CondensedRange(start, end)
	out := &Written{Dir: dir, Authors: make(map[string]string)}

	totalName := fmt.Sprintf("%s-%s-%s.txt", totalPrefix, rng, RepoLabel(commits))
	taken := map[string]string{totalName: totalPrefix}

	for _, g := range GroupByAuthor(commits) {
		content := Render(g.Commits, Header{Author: g.Author, Start: start, End: end})
		label := RepoLabel(g.Commits)
		base := safeFileComponent(g.Author)
		name := fmt.Sprintf("%s-%s-%s.txt", base, rng, label)
		for n := 2; ; n++ {
			owner, clash := taken[name]
			if !clash {
				break
			}
			alt := fmt.Sprintf("%s_%d-%s-%s.txt", base, n, rng, label)
			w.logger.Warn("author report file name already in use",
				slog.String("author", g.Author),
				slog.String("owner", owner),
				slog.String("file", name),
				slog.String("renamed", alt),
			)
			name = alt
		}
		taken[name] = g.Author
		path := filepath.Join(dir, name)
		if err := atomicWrite(path, []byte(content)); err != nil {
			return nil, err
		}
		out.Authors[g.Author] = path
		w.logger.Debug("wrote author report", slog.String("author", g.Author), slog.String("path", path))
	}

	content := Render(commits, Header{Total: true, Start: start, End: end})
	path := filepath.Join(dir, totalName)
	if err := atomicWrite(path, []byte(content)); err != nil {
		return nil, err
	}
	out.Total = path

	w.logger.Info("reports written",
		slog.String("dir", dir),
		slog.Int("authors", len(out.Authors)),
		slog.Int("commits", len(commits)),
	)
	return out, nil
}

// CondensedRange renders start~end with the end date's shared year, and then
// shared month, left out: 2024-01-05~09, 2024-01-05~03-09, 2023-12-31~2024-01-02.
func CondensedRange(start, end string) string {
	s := strings.Split(start, "-")
	e := strings.Split(end, "-")
	if len(s) == 3 && len(e) == 3 && s[0] == e[0] {
		if s[1] == e[1] {
			return start + "~" + e[2]
		}
		return start + "~" + e[1] + "-" + e[2]
	}
	return start + "~" + end
}

// RepoLabel is the single repository shared by all commits, MultiProjectLabel
// when they span several, or NoProjectLabel when there are none.
func RepoLabel(commits []gitlog.Commit) string {
	label := ""
	for _, c := range commits {
		switch {
		case label == "":
			label = c.RepoName
		case label != c.RepoName:
			return MultiProjectLabel
		}
	}
	if label == "" {
		return NoProjectLabel
	}
	return label
}

// safeFileComponent keeps author names from escaping the report directory.
func safeFileComponent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, s)
}

// atomicWrite replaces path with content via a temp file and rename.
func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".worklog-tmp-*")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
