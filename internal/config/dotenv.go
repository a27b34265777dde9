package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file without overriding ones that
// are already set. An empty path means ".env"; a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: load %s: %v", ErrInvalid, path, err)
	}
	return nil
}

// Resolve builds the effective configuration: defaults, then the YAML file
// at path, then .env and WORKLOG_* variables. Flags are applied by the caller.
func Resolve(path, dotEnvPath string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	if err := LoadDotEnv(dotEnvPath); err != nil {
		return Config{}, err
	}
	env, err := LoadFromEnv()
	if err != nil {
		return Config{}, err
	}
	return env.Apply(cfg), nil
}
