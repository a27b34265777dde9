package report

import (
	"sort"
	"strings"

	"github.com/bartekus/worklog/internal/gitlog"
)

// AuthorGroup is the slice of commits written by one author.
type AuthorGroup struct {
	Author  string
	Commits []gitlog.Commit
}

// GroupByAuthor partitions commits by exact author name. Groups are sorted by
// author so that output is deterministic; commit order within a group is kept.
func GroupByAuthor(commits []gitlog.Commit) []AuthorGroup {
	byAuthor := make(map[string][]gitlog.Commit)
	for _, c := range commits {
		byAuthor[c.Author] = append(byAuthor[c.Author], c)
	}

	groups := make([]AuthorGroup, 0, len(byAuthor))
	for author, cs := range byAuthor {
		groups = append(groups, AuthorGroup{Author: author, Commits: cs})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Author < groups[j].Author })
	return groups
}

// FilterAuthor keeps commits whose author contains needle, ignoring case.
// An empty or blank needle keeps everything.
func FilterAuthor(commits []gitlog.Commit, needle string) []gitlog.Commit {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return commits
	}

	out := make([]gitlog.Commit, 0, len(commits))
	for _, c := range commits {
		if strings.Contains(strings.ToLower(c.Author), needle) {
			out = append(out, c)
		}
	}
	return out
}

// FilterExport keeps commits matching author and repo exactly. An empty
// value matches everything.
func FilterExport(commits []gitlog.Commit, author, repo string) []gitlog.Commit {
	if author == "" && repo == "" {
		return commits
	}

	out := make([]gitlog.Commit, 0, len(commits))
	for _, c := range commits {
		if author != "" && c.Author != author {
			continue
		}
		if repo != "" && c.RepoName != repo {
			continue
		}
		out = append(out, c)
	}
	return out
}
