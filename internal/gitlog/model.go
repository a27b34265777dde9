package gitlog

import "path/filepath"

// UnknownBranch is the branch of a commit whose containing ref could not be resolved.
const UnknownBranch = "Unknown"

// Commit is one parsed commit. It is identified by (Hash, RepoName).
type Commit struct {
	Date       string `json:"date"` // YYYY-MM-DD as reported by git
	Hash       string `json:"hash"`
	Author     string `json:"author"`
	Message    string `json:"message"`
	Branch     string `json:"branch"`
	RepoName   string `json:"repo_name"`
	Insertions int    `json:"insertions"`
	Deletions  int    `json:"deletions"`
	Timestamp  int64  `json:"timestamp"`
}

// RepoName derives the project name of a repository from its path.
func RepoName(path string) string {
	return filepath.Base(filepath.Clean(path))
}

// ApplyBranches sets the branch of every commit found in branches.
// Commits without an entry keep their current branch.
func ApplyBranches(commits []Commit, branches map[string]string) {
	for i := range commits {
		if b, ok := branches[commits[i].Hash]; ok {
			commits[i].Branch = b
		}
	}
}
