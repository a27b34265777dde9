// Package report aggregates commit records into work-log reports and writes them to disk.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bartekus/worklog/internal/gitlog"
)

const separator = "----------------------------------------"

// Tree groups commit messages by date, then project, then branch.
// Dates, projects and branches iterate in ascending order; messages keep
// the order in which their commits were added.
type Tree struct {
	days map[string]map[string]map[string][]string
}

// BuildTree returns a Tree holding the messages of commits.
func BuildTree(commits []gitlog.Commit) *Tree {
	t := &Tree{days: make(map[string]map[string]map[string][]string)}
	for _, c := range commits {
		t.Add(c)
	}
	return t
}

// Add appends the message of c under c.Date, c.RepoName and c.Branch.
func (t *Tree) Add(c gitlog.Commit) {
	projects, ok := t.days[c.Date]
	if !ok {
		projects = make(map[string]map[string][]string)
		t.days[c.Date] = projects
	}
	branches, ok := projects[c.RepoName]
	if !ok {
		branches = make(map[string][]string)
		projects[c.RepoName] = branches
	}
	branches[c.Branch] = append(branches[c.Branch], c.Message)
}

// Dates returns the dates in ascending order.
func (t *Tree) Dates() []string {
	return sortedKeys(t.days)
}

// Projects returns the projects active on date, sorted.
func (t *Tree) Projects(date string) []string {
	return sortedKeys(t.days[date])
}

// Branches returns the branches of project on date, sorted.
func (t *Tree) Branches(date, project string) []string {
	return sortedKeys(t.days[date][project])
}

// Messages returns the messages of a leaf in insertion order.
func (t *Tree) Messages(date, project, branch string) []string {
	return t.days[date][project][branch]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Header describes who and what period a rendered report covers.
type Header struct {
	// Author is ignored when Total is set.
	Author string
	Total  bool
	Start  string
	End    string
}

func (h Header) title() string {
	if h.Total {
		return "Summary (all authors)"
	}
	return "Author: " + h.Author
}

// Render formats the tree as a plain-text work log.
func (t *Tree) Render(h Header) string {
	var b strings.Builder

	b.WriteString(h.title() + "\n")
	fmt.Fprintf(&b, "Time range: %s to %s\n", h.Start, h.End)
	b.WriteString(separator + "\n\n")

	for _, date := range t.Dates() {
		fmt.Fprintf(&b, "[%s]\n", date)
		for _, project := range t.Projects(date) {
			fmt.Fprintf(&b, "  Project: %s\n", project)
			for _, branch := range t.Branches(date, project) {
				fmt.Fprintf(&b, "    Branch: %s\n", branch)
				for i, msg := range t.Messages(date, project, branch) {
					writeMessage(&b, i+1, msg)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeMessage(b *strings.Builder, n int, msg string) {
	lines := messageLines(msg)
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "      %d. %s\n", n, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(b, "         %s\n", line)
	}
}

func messageLines(msg string) []string {
	if msg == "" {
		return nil
	}
	lines := strings.Split(msg, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Render builds a tree from commits and renders it under h.
func Render(commits []gitlog.Commit, h Header) string {
	return BuildTree(commits).Render(h)
}
