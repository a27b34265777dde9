// Package config provides worklog configuration: a YAML file, environment
// overrides and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given.
const DefaultFile = "worklog.yaml"

// ErrInvalid marks configuration that cannot be used as given.
var ErrInvalid = errors.New("invalid configuration")

// LogFormat selects the log output encoding.
type LogFormat string

// Log formats.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Group is a named set of repositories.
type Group struct {
	Name string `yaml:"name"`
	// Selected groups are used when no group is requested explicitly.
	Selected bool     `yaml:"selected"`
	Repos    []string `yaml:"repos"`
}

// Alias maps a git author name to a display name.
type Alias struct {
	Original string `yaml:"original"`
	Alias    string `yaml:"alias"`
}

// Config is the resolved configuration.
type Config struct {
	OutputRoot       string    `yaml:"output_root"`
	GitBinary        string    `yaml:"git_binary"`
	FetchConcurrency int       `yaml:"fetch_concurrency"`
	StateDir         string    `yaml:"state_dir"`
	LogLevel         string    `yaml:"log_level"`
	LogFormat        LogFormat `yaml:"log_format"`
	Groups           []Group   `yaml:"groups"`
	Aliases          []Alias   `yaml:"aliases"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OutputRoot:       "reports",
		GitBinary:        "git",
		FetchConcurrency: 4,
		StateDir:         ".worklog",
		LogLevel:         "INFO",
		LogFormat:        LogFormatPretty,
	}
}

// Load reads path over the defaults. A missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied config path
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}
	return cfg, nil
}

// Validate checks the values that later stages rely on.
func (c Config) Validate() error {
	var problems []string

	if c.FetchConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("fetch_concurrency must be at least 1, got %d", c.FetchConcurrency))
	}
	if strings.TrimSpace(c.GitBinary) == "" {
		problems = append(problems, "git_binary must not be empty")
	}
	if strings.TrimSpace(c.OutputRoot) == "" {
		problems = append(problems, "output_root must not be empty")
	}
	switch c.LogFormat {
	case LogFormatPretty, LogFormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("log_format must be %q or %q, got %q", LogFormatPretty, LogFormatJSON, c.LogFormat))
	}
	if !validLevel(c.LogLevel) {
		problems = append(problems, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	seen := make(map[string]bool, len(c.Groups))
	for i, g := range c.Groups {
		switch {
		case strings.TrimSpace(g.Name) == "":
			problems = append(problems, fmt.Sprintf("groups[%d] has no name", i))
		case seen[g.Name]:
			problems = append(problems, fmt.Sprintf("duplicate group %q", g.Name))
		}
		seen[g.Name] = true
	}
	for i, a := range c.Aliases {
		if strings.TrimSpace(a.Original) == "" {
			problems = append(problems, fmt.Sprintf("aliases[%d] has no original", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func validLevel(level string) bool {
	switch strings.ToUpper(level) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
		return true
	}
	return false
}

// SelectRepos returns the repositories of the named groups, or of every
// selected group when names is empty. Duplicates are dropped, first one wins.
func (c Config) SelectRepos(names []string) ([]string, error) {
	var paths []string

	if len(names) == 0 {
		for _, g := range c.Groups {
			if g.Selected {
				paths = append(paths, g.Repos...)
			}
		}
		return Dedup(paths), nil
	}

	byName := make(map[string]Group, len(c.Groups))
	for _, g := range c.Groups {
		byName[g.Name] = g
	}
	for _, n := range names {
		g, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("%w: unknown group %q", ErrInvalid, n)
		}
		paths = append(paths, g.Repos...)
	}
	return Dedup(paths), nil
}

// Dedup removes repeated entries, keeping the first occurrence.
func Dedup(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
