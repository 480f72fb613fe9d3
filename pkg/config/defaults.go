package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values for configuration.
const (
	DefaultIdleTimeout  = 200 * time.Millisecond
	DefaultGapThreshold = 30 * time.Second
	DefaultBacklog      = 100
)

// Environment variable names.
const (
	EnvRunDir = "NSO_RUN_DIR"
	EnvConfig = "PYLV_CONFIG"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		IdleTimeout:  Duration(DefaultIdleTimeout),
		GapThreshold: Duration(DefaultGapThreshold),
		Backlog:      DefaultBacklog,
	}
}

// DefaultPath returns the default config file location (~/.pylv.yaml), or ""
// when the home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pylv.yaml")
}

// applyEnvironmentOverrides applies environment variable overrides.
func (c *Config) applyEnvironmentOverrides() {
	if dir := os.Getenv(EnvRunDir); dir != "" {
		c.RunDir = dir
	}
}
