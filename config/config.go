// Package config defines the runtime configuration for countdown and
// the helpers that load, validate and split it.
package config

import (
	"fmt"
	"strings"
	"time"

	cderr "countdown/internal/errors"
)

// Config holds every tuneable for a single countdown session.
type Config struct {
	// ── Session ──────────────────────────────────────────────────────
	Interval      time.Duration `yaml:"interval"`
	InitialCount  int           `yaml:"count"`
	AnnounceReady bool          `yaml:"announce_ready"`
	StopTimeout   time.Duration `yaml:"stop_timeout"`

	// ── Events ───────────────────────────────────────────────────────
	BufferSize int `yaml:"buffer"`

	// ── Driver ───────────────────────────────────────────────────────
	Keys  bool   `yaml:"keys,omitempty"` // single-key terminal mode
	Exec  string `yaml:"exec,omitempty"` // ';'-separated command script
	Stats bool   `yaml:"stats"`

	// ── Output ───────────────────────────────────────────────────────
	Verbose int `yaml:"verbose"`
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		Interval:     DefaultInterval,
		InitialCount: DefaultInitialCount,
		StopTimeout:  DefaultStopTimeout,
		BufferSize:   DefaultBufferSize,
		Verbose:      1,
	}
}

// ── Script parser ────────────────────────────────────────────────────

// ParseScript splits an --exec script on ';' and newlines into
// individual command lines.  Blank segments are skipped.
func ParseScript(script string) ([]string, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ';' || r == '\n'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("script %q contains no commands", script)
	}
	return out, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return &cderr.ConfigError{
			Field:   "interval",
			Value:   c.Interval,
			Message: "must be positive",
			Hint:    "use a duration such as 1s or 250ms",
		}
	}
	if c.InitialCount < 0 {
		return &cderr.ConfigError{
			Field:   "count",
			Value:   c.InitialCount,
			Message: "must be non-negative",
		}
	}
	if c.BufferSize < 1 {
		return &cderr.ConfigError{
			Field:   "buffer",
			Value:   c.BufferSize,
			Message: "must be at least 1",
			Hint:    "slow subscribers keep the newest values; 1 keeps only the latest",
		}
	}
	if c.StopTimeout <= 0 {
		return &cderr.ConfigError{
			Field:   "stop-timeout",
			Value:   c.StopTimeout,
			Message: "must be positive",
		}
	}
	if c.Keys && c.Exec != "" {
		return &cderr.ConfigError{
			Field:   "exec",
			Message: "--keys and --exec are mutually exclusive",
			Hint:    "drop --keys to run a script non-interactively",
		}
	}
	if c.Exec != "" {
		if _, err := ParseScript(c.Exec); err != nil {
			return &cderr.ConfigError{Field: "exec", Value: c.Exec, Message: err.Error()}
		}
	}
	return nil
}
