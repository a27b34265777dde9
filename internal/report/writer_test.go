package report

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/worklog/internal/gitlog"
	wlog "github.com/bartekus/worklog/internal/log"
	"github.com/bartekus/worklog/internal/testutil/golden"
)

func quietLogger() *slog.Logger {
	return wlog.Discard()
}

func TestCondensedRange(t *testing.T) {
	cases := []struct {
		start, end, want string
	}{
		{"2024-01-05", "2024-01-09", "2024-01-05~09"},
		{"2024-01-05", "2024-03-09", "2024-01-05~03-09"},
		{"2023-12-31", "2024-01-02", "2023-12-31~2024-01-02"},
		{"2024-01-05", "2024-01-05", "2024-01-05~05"},
		{"20240105", "2024-01-09", "20240105~2024-01-09"},
	}
	for _, tc := range cases {
		t.Run(tc.start+"_"+tc.end, func(t *testing.T) {
			assert.Equal(t, tc.want, CondensedRange(tc.start, tc.end))
		})
	}
}

func TestRepoLabel(t *testing.T) {
	assert.Equal(t, NoProjectLabel, RepoLabel(nil))
	assert.Equal(t, "api", RepoLabel([]gitlog.Commit{{RepoName: "api"}, {RepoName: "api"}}))
	assert.Equal(t, MultiProjectLabel, RepoLabel([]gitlog.Commit{{RepoName: "api"}, {RepoName: "web"}}))
}

func TestWriter_Write(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, quietLogger())

	out, err := w.Write(fixture(), "2024-01-05", "2024-01-09")
	require.NoError(t, err)

	dir := filepath.Join(root, "2024-01-05~2024-01-09")
	assert.Equal(t, dir, out.Dir)
	assert.Equal(t, filepath.Join(dir, "TOTAL-2024-01-05~09-AllProjects.txt"), out.Total)
	assert.Equal(t, map[string]string{
		"Alice": filepath.Join(dir, "Alice-2024-01-05~09-AllProjects.txt"),
		"Bob":   filepath.Join(dir, "Bob-2024-01-05~09-AllProjects.txt"),
	}, out.Authors)

	alice, err := os.ReadFile(out.Authors["Alice"])
	require.NoError(t, err)
	golden.Assert(t, golden.Dir(t), "author_alice", string(alice))

	total, err := os.ReadFile(out.Total)
	require.NoError(t, err)
	golden.Assert(t, golden.Dir(t), "total", string(total))
}

func TestWriter_SingleRepositoryLabel(t *testing.T) {
	root := t.TempDir()
	commits := FilterExport(fixture(), "", "api")

	out, err := NewWriter(root, quietLogger()).Write(commits, "2024-01-05", "2024-01-09")
	require.NoError(t, err)

	assert.Equal(t, "TOTAL-2024-01-05~09-api.txt", filepath.Base(out.Total))
	assert.Equal(t, "Bob-2024-01-05~09-api.txt", filepath.Base(out.Authors["Bob"]))
}

func TestWriter_NoCommitsWritesEmptyTotal(t *testing.T) {
	root := t.TempDir()

	out, err := NewWriter(root, quietLogger()).Write(nil, "2024-01-05", "2024-01-09")
	require.NoError(t, err)

	assert.Empty(t, out.Authors)
	assert.Equal(t, "TOTAL-2024-01-05~09-Unknown.txt", filepath.Base(out.Total))
	assert.FileExists(t, out.Total)
}

func TestWriter_RewriteIsIdempotent(t *testing.T) {
	root := t.TempDir()
	w := NewWriter(root, quietLogger())

	first, err := w.Write(fixture(), "2024-01-05", "2024-01-09")
	require.NoError(t, err)
	before, err := os.ReadFile(first.Total)
	require.NoError(t, err)

	second, err := w.Write(fixture(), "2024-01-05", "2024-01-09")
	require.NoError(t, err)
	after, err := os.ReadFile(second.Total)
	require.NoError(t, err)

	assert.Equal(t, before, after)

	entries, err := os.ReadDir(first.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "no temp files may be left behind")
}

func TestWriter_AuthorWithPathSeparator(t *testing.T) {
	root := t.TempDir()
	commits := []gitlog.Commit{{Date: "2024-01-05", Author: "ci/bot", Message: "m", Branch: "main", RepoName: "r"}}

	out, err := NewWriter(root, quietLogger()).Write(commits, "2024-01-05", "2024-01-05")
	require.NoError(t, err)

	assert.Equal(t, "ci_bot-2024-01-05~05-r.txt", filepath.Base(out.Authors["ci/bot"]))
	assert.Equal(t, out.Dir, filepath.Dir(out.Authors["ci/bot"]))
}

func TestWriter_AuthorFileNameCollision(t *testing.T) {
	root := t.TempDir()
	commits := []gitlog.Commit{
		{Date: "2024-01-05", Author: "a/b", Message: "slash", Branch: "main", RepoName: "r"},
		{Date: "2024-01-05", Author: "a_b", Message: "underscore", Branch: "main", RepoName: "r"},
		{Date: "2024-01-05", Author: "TOTAL", Message: "shouty", Branch: "main", RepoName: "r"},
	}
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	out, err := NewWriter(root, logger).Write(commits, "2024-01-05", "2024-01-05")
	require.NoError(t, err)

	assert.Equal(t, "a_b-2024-01-05~05-r.txt", filepath.Base(out.Authors["a/b"]))
	assert.Equal(t, "a_b_2-2024-01-05~05-r.txt", filepath.Base(out.Authors["a_b"]))
	assert.Equal(t, "TOTAL_2-2024-01-05~05-r.txt", filepath.Base(out.Authors["TOTAL"]))
	assert.Equal(t, "TOTAL-2024-01-05~05-r.txt", filepath.Base(out.Total))

	for author, path := range out.Authors {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Author: "+author+"\n")
	}
	total, err := os.ReadFile(out.Total)
	require.NoError(t, err)
	assert.Contains(t, string(total), "underscore")
	assert.Contains(t, string(total), "slash")

	entries, err := os.ReadDir(out.Dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Contains(t, logs.String(), "author report file name already in use")
}

func TestWriter_DirectoryFailure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "blocked")
	require.NoError(t, os.WriteFile(root, []byte("not a dir"), 0o600))

	_, err := NewWriter(root, quietLogger()).Write(fixture(), "2024-01-05", "2024-01-09")
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, filepath.Join(root, "2024-01-05~2024-01-09"), werr.Path)
}
