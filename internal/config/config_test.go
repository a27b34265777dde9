package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, t.TempDir(), "worklog.yaml", `
output_root: ./out
fetch_concurrency: 8
groups:
  - name: backend
    selected: true
    repos: [/src/api, /src/worker]
  - name: web
    repos: [/src/site]
aliases:
  - original: jdoe
    alias: Jane Doe
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./out", cfg.OutputRoot)
	assert.Equal(t, 8, cfg.FetchConcurrency)
	assert.Equal(t, "git", cfg.GitBinary, "unset keys keep their defaults")
	require.Len(t, cfg.Groups, 2)
	assert.Equal(t, Group{Name: "backend", Selected: true, Repos: []string{"/src/api", "/src/worker"}}, cfg.Groups[0])
	assert.Equal(t, []Alias{{Original: "jdoe", Alias: "Jane Doe"}}, cfg.Aliases)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "worklog.yaml", "groups: [unclosed\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero concurrency", func(c *Config) { c.FetchConcurrency = 0 }, "fetch_concurrency"},
		{"empty git", func(c *Config) { c.GitBinary = " " }, "git_binary"},
		{"empty output", func(c *Config) { c.OutputRoot = "" }, "output_root"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad level", func(c *Config) { c.LogLevel = "LOUD" }, "log_level"},
		{"unnamed group", func(c *Config) { c.Groups = []Group{{}} }, "groups[0] has no name"},
		{"duplicate group", func(c *Config) { c.Groups = []Group{{Name: "a"}, {Name: "a"}} }, `duplicate group "a"`},
		{"alias without original", func(c *Config) { c.Aliases = []Alias{{Alias: "x"}} }, "aliases[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestSelectRepos(t *testing.T) {
	cfg := Default()
	cfg.Groups = []Group{
		{Name: "backend", Selected: true, Repos: []string{"/src/api", "/src/shared"}},
		{Name: "web", Repos: []string{"/src/site", "/src/shared"}},
		{Name: "infra", Selected: true, Repos: []string{"/src/ops", "/src/api"}},
	}

	repos, err := cfg.SelectRepos(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/api", "/src/shared", "/src/ops"}, repos)

	repos, err = cfg.SelectRepos([]string{"web", "backend"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/src/site", "/src/shared", "/src/api"}, repos)

	_, err = cfg.SelectRepos([]string{"mobile"})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedup([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Dedup(nil))
}
