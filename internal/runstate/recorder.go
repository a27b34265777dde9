package runstate

import (
	"sync"
	"time"

	"github.com/bartekus/worklog/internal/gitlog"
)

// Recorder collects repository outcomes from an Extractor and turns them
// into a LastRun.
type Recorder struct {
	mu    sync.Mutex
	repos []Repository
	now   func() time.Time
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

// RepositoryStarted implements gitlog.Observer.
func (r *Recorder) RepositoryStarted(string, int, int) {}

// RepositoryDone implements gitlog.Observer.
func (r *Recorder) RepositoryDone(o gitlog.RepoOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.repos = append(r.repos, Repository{
		Path:    o.Path,
		Name:    o.Name,
		Status:  o.Status,
		Commits: o.Commits,
		Note:    o.Note,
	})
}

// Finish builds the summary for command over since..until. runErr is the
// error the command ended with, if any.
func (r *Recorder) Finish(command, since, until string, runErr error) LastRun {
	r.mu.Lock()
	defer r.mu.Unlock()

	last := LastRun{
		Command:      command,
		Since:        since,
		Until:        until,
		Status:       StatusOK,
		Repositories: append([]Repository(nil), r.repos...),
		FinishedAt:   r.now().UTC(),
	}
	for _, repo := range r.repos {
		last.Commits += repo.Commits
		if repo.Status != gitlog.RepoOK && last.Status == StatusOK {
			last.Status = StatusPartial
		}
	}
	if runErr != nil {
		last.Status = StatusFailed
	}
	return last
}
