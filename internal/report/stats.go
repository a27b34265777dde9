package report

import (
	"sort"
	"strings"

	"github.com/bartekus/worklog/internal/gitlog"
)

const topAuthorLimit = 5

var knownCommitTypes = map[string]bool{
	"feat": true, "fix": true, "docs": true, "style": true, "refactor": true, "perf": true,
	"test": true, "chore": true, "build": true, "ci": true, "revert": true,
}

// Count is a labelled tally.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary is the at-a-glance overview of a commit set.
type Summary struct {
	TotalCommits int     `json:"total_commits"`
	ActiveDays   int     `json:"active_days"`
	Authors      int     `json:"authors"`
	Insertions   int     `json:"insertions"`
	Deletions    int     `json:"deletions"`
	Types        []Count `json:"types"`
	Daily        []Count `json:"daily"`
	TopAuthors   []Count `json:"top_authors"`
}

// CommitType classifies a message by its conventional-commit prefix.
// Anything that is not a known type is "other".
func CommitType(message string) string {
	t := strings.SplitN(message, ":", 2)[0]
	t = strings.SplitN(t, "(", 2)[0]
	t = strings.ToLower(strings.TrimSpace(t))
	if knownCommitTypes[t] {
		return t
	}
	return "other"
}

// Summarize computes a Summary. Authors are counted after alias resolution;
// aliases may be nil.
func Summarize(commits []gitlog.Commit, aliases *AliasResolver) Summary {
	s := Summary{TotalCommits: len(commits)}

	types := make(map[string]int)
	daily := make(map[string]int)
	authors := make(map[string]int)

	for _, c := range commits {
		s.Insertions += c.Insertions
		s.Deletions += c.Deletions
		types[CommitType(c.Message)]++
		daily[c.Date]++
		authors[aliases.Resolve(c.Author)]++
	}

	s.ActiveDays = len(daily)
	s.Authors = len(authors)
	s.Types = byCountDesc(types)
	s.TopAuthors = byCountDesc(authors)
	if len(s.TopAuthors) > topAuthorLimit {
		s.TopAuthors = s.TopAuthors[:topAuthorLimit]
	}

	s.Daily = make([]Count, 0, len(daily))
	for _, d := range sortedKeys(daily) {
		s.Daily = append(s.Daily, Count{Label: d, Count: daily[d]})
	}

	return s
}

// byCountDesc orders by count descending, then label ascending.
func byCountDesc(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
