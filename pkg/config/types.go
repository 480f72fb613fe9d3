// Package config provides configuration loading and validation for pylv.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from yaml scalars like
// "200ms" or "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// RunDir is the NSO run directory; log files live under <run_dir>/logs.
	RunDir string `yaml:"run_dir"`

	// IdleTimeout is the follow-mode inactivity period after which a
	// buffered multi-line message is considered complete.
	IdleTimeout Duration `yaml:"idle_timeout"`

	// GapThreshold is the elapsed time between records above which a
	// separator line is printed.
	GapThreshold Duration `yaml:"gap_threshold"`

	// Backlog is how many trailing lines follow mode shows on startup.
	Backlog int `yaml:"backlog"`

	// MinLevel suppresses records below this severity (empty: show all).
	MinLevel string `yaml:"min_level"`

	// NoPager disables piping batch output through $PAGER.
	NoPager bool `yaml:"no_pager"`

	// NoColor disables ANSI colors even on a terminal.
	NoColor bool `yaml:"no_color"`
}
