// Package repo answers questions about local repositories that the extraction
// pipeline does not: whether a path is one, where it was cloned from, and
// whether its remotes have moved on.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// DefaultRemote is preferred by RemoteURL when present.
const DefaultRemote = "origin"

// IsRepository reports whether path holds a git repository, either through a
// .git entry (directory, or file for worktrees) or as a bare repository.
func IsRepository(path string) bool {
	if _, err := os.Stat(filepath.Join(path, ".git")); err == nil {
		return true
	}
	_, err := gogit.PlainOpen(path)
	return err == nil
}

// RemoteURL returns the first URL of the origin remote, falling back to the
// first remote in name order. A repository without remotes yields "".
func RemoteURL(path string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{EnableDotGitCommonDir: true})
	if err != nil {
		return "", fmt.Errorf("open repository %s: %w", path, err)
	}

	origin, err := repo.Remote(DefaultRemote)
	switch {
	case err == nil:
		if urls := origin.Config().URLs; len(urls) > 0 {
			return urls[0], nil
		}
	case !errors.Is(err, gogit.ErrRemoteNotFound):
		return "", fmt.Errorf("read remote %s: %w", DefaultRemote, err)
	}

	remotes, err := repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("list remotes: %w", err)
	}
	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})
	for _, r := range remotes {
		if urls := r.Config().URLs; len(urls) > 0 {
			return urls[0], nil
		}
	}
	return "", nil
}

// Partition splits paths into repositories and everything else, keeping order.
func Partition(paths []string) (repos, rejected []string) {
	for _, p := range paths {
		if IsRepository(p) {
			repos = append(repos, p)
		} else {
			rejected = append(rejected, p)
		}
	}
	return repos, rejected
}
