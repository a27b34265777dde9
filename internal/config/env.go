package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable, e.g. WORKLOG_GIT_BINARY.
const EnvPrefix = "WORKLOG"

// EnvConfig holds environment overrides. Unset variables leave the file
// and default values untouched.
type EnvConfig struct {
	// Env: WORKLOG_GIT_BINARY
	GitBinary string `envconfig:"GIT_BINARY"`

	// Env: WORKLOG_OUTPUT_ROOT
	OutputRoot string `envconfig:"OUTPUT_ROOT"`

	// Env: WORKLOG_LOG_LEVEL
	LogLevel string `envconfig:"LOG_LEVEL"`

	// LogFormat is pretty or json.
	// Env: WORKLOG_LOG_FORMAT
	LogFormat string `envconfig:"LOG_FORMAT"`

	// Env: WORKLOG_FETCH_CONCURRENCY
	FetchConcurrency int `envconfig:"FETCH_CONCURRENCY"`

	// StateDir holds last-run.json.
	// Env: WORKLOG_STATE_DIR
	StateDir string `envconfig:"STATE_DIR"`
}

// LoadFromEnv reads WORKLOG_* variables.
func LoadFromEnv() (EnvConfig, error) {
	var e EnvConfig
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return EnvConfig{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return e, nil
}

// Apply returns cfg with every set override applied.
func (e EnvConfig) Apply(cfg Config) Config {
	if e.GitBinary != "" {
		cfg.GitBinary = e.GitBinary
	}
	if e.OutputRoot != "" {
		cfg.OutputRoot = e.OutputRoot
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	if e.LogFormat != "" {
		cfg.LogFormat = LogFormat(e.LogFormat)
	}
	if e.FetchConcurrency != 0 {
		cfg.FetchConcurrency = e.FetchConcurrency
	}
	if e.StateDir != "" {
		cfg.StateDir = e.StateDir
	}
	return cfg
}
