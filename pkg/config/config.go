package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mkarlsen/pylv/pkg/record"
)

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads the configuration from $PYLV_CONFIG, then ~/.pylv.yaml,
// falling back to defaults when neither exists.
func LoadDefault() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}
	if path := DefaultPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if cfg.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout: must be positive, got %s", cfg.IdleTimeout.Std())
	}
	if cfg.GapThreshold < 0 {
		return fmt.Errorf("gap_threshold: must not be negative, got %s", cfg.GapThreshold.Std())
	}
	if cfg.Backlog < 0 {
		return fmt.Errorf("backlog: must not be negative, got %d", cfg.Backlog)
	}
	if cfg.MinLevel != "" {
		if _, ok := record.ParseSeverity(cfg.MinLevel); !ok {
			return fmt.Errorf("min_level: unknown severity %q (use trace, debug, info, warn or error)", cfg.MinLevel)
		}
	}
	return nil
}
