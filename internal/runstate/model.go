// Package runstate remembers what the latest extraction did.
package runstate

import (
	"time"

	"github.com/bartekus/worklog/internal/gitlog"
)

// Run statuses.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// Repository is the per-repository part of a LastRun.
type Repository struct {
	Path    string            `json:"path"`
	Name    string            `json:"name"`
	Status  gitlog.RepoStatus `json:"status"`
	Commits int               `json:"commits"`
	Note    string            `json:"note,omitempty"`
}

// LastRun summarises the latest extract or report invocation.
// Stored as <state_dir>/last-run.json.
type LastRun struct {
	Command      string       `json:"command"`
	Since        string       `json:"since"`
	Until        string       `json:"until"`
	Status       string       `json:"status"` // ok, partial or failed
	Repositories []Repository `json:"repositories"`
	Commits      int          `json:"commits"`
	FinishedAt   time.Time    `json:"finished_at"`
}

// Skipped lists the paths of repositories that produced nothing.
func (l *LastRun) Skipped() []string {
	var out []string
	for _, r := range l.Repositories {
		if r.Status == gitlog.RepoSkipped {
			out = append(out, r.Path)
		}
	}
	return out
}
