package runstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const lastRunFile = "last-run.json"

// Store reads and writes run state under a base directory (e.g. .worklog).
type Store struct {
	baseDir string
}

// NewStore creates a store at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Path is the location of last-run.json.
func (s *Store) Path() string {
	return filepath.Join(s.baseDir, lastRunFile)
}

// ReadLastRun loads the last summary. No file means no previous run and
// returns nil, nil.
func (s *Store) ReadLastRun() (*LastRun, error) {
	f, err := os.Open(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening last run file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var last LastRun
	if err := json.NewDecoder(f).Decode(&last); err != nil {
		return nil, fmt.Errorf("decoding last run: %w", err)
	}
	return &last, nil
}

// WriteLastRun replaces the stored summary.
func (s *Store) WriteLastRun(last LastRun) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(last, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding last run: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.baseDir, ".last-run-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing last run: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("moving last run into place: %w", err)
	}
	return nil
}

// Reset clears the state directory.
func (s *Store) Reset() error {
	return os.RemoveAll(s.baseDir)
}
