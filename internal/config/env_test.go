package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WORKLOG_GIT_BINARY", "/opt/git/bin/git")
	t.Setenv("WORKLOG_FETCH_CONCURRENCY", "2")
	t.Setenv("WORKLOG_LOG_FORMAT", "json")

	env, err := LoadFromEnv()
	require.NoError(t, err)

	cfg := env.Apply(Default())
	assert.Equal(t, "/opt/git/bin/git", cfg.GitBinary)
	assert.Equal(t, 2, cfg.FetchConcurrency)
	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "reports", cfg.OutputRoot)
}

func TestLoadFromEnv_BadNumber(t *testing.T) {
	t.Setenv("WORKLOG_FETCH_CONCURRENCY", "many")

	_, err := LoadFromEnv()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestEnvConfig_ApplyLeavesUnsetValues(t *testing.T) {
	base := Default()
	base.OutputRoot = "/from/file"

	assert.Equal(t, base, EnvConfig{}.Apply(base))
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "worklog.yaml", "output_root: /from/file\nstate_dir: /state/file\n")
	envPath := writeFile(t, dir, ".env", "WORKLOG_STATE_DIR=/state/dotenv\nWORKLOG_LOG_LEVEL=DEBUG\n")

	unsetEnv(t, "WORKLOG_STATE_DIR")
	unsetEnv(t, "WORKLOG_OUTPUT_ROOT")
	t.Setenv("WORKLOG_LOG_LEVEL", "WARN")

	cfg, err := Resolve(cfgPath, envPath)
	require.NoError(t, err)

	assert.Equal(t, "/from/file", cfg.OutputRoot)
	assert.Equal(t, "/state/dotenv", cfg.StateDir)
	assert.Equal(t, "WARN", cfg.LogLevel, "process environment wins over .env")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(t.TempDir()+"/.env"))
}
