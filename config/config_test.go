package config

import (
	"strings"
	"testing"
	"time"
)

// ── ParseScript ──────────────────────────────────────────────────────

func TestParseScript(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"semicolons", "ready 3; start; wait", []string{"ready 3", "start", "wait"}, false},
		{"newlines", "ready 3\nstart\n", []string{"ready 3", "start"}, false},
		{"blank segments", " ;; start ;", []string{"start"}, false},
		{"empty", "", nil, true},
		{"only separators", " ; ;\n", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScript(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	valid := func(mut func(*Config)) *Config {
		c := Default()
		mut(c)
		return c
	}

	tests := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{"defaults", Default(), false},
		{"zero count", valid(func(c *Config) { c.InitialCount = 0 }), false},
		{"script", valid(func(c *Config) { c.Exec = "ready 2; start; wait" }), false},
		{"zero interval", valid(func(c *Config) { c.Interval = 0 }), true},
		{"negative interval", valid(func(c *Config) { c.Interval = -time.Second }), true},
		{"negative count", valid(func(c *Config) { c.InitialCount = -1 }), true},
		{"zero buffer", valid(func(c *Config) { c.BufferSize = 0 }), true},
		{"zero stop timeout", valid(func(c *Config) { c.StopTimeout = 0 }), true},
		{"keys with exec", valid(func(c *Config) { c.Keys = true; c.Exec = "start" }), true},
		{"empty script", valid(func(c *Config) { c.Exec = ";" }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

// TestValidate_ErrorMessages verifies that Validate returns actionable
// error messages with hints.
func TestValidate_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(*Config)
		wantSub string // substring expected in error
	}{
		{"interval has hint", func(c *Config) { c.Interval = 0 }, "hint:"},
		{"buffer has hint", func(c *Config) { c.BufferSize = 0 }, "hint:"},
		{"keys exec conflict", func(c *Config) { c.Keys = true; c.Exec = "start" }, "mutually exclusive"},
		{"count names field", func(c *Config) { c.InitialCount = -4 }, "--count=-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mut(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Interval != DefaultInterval || c.InitialCount != DefaultInitialCount ||
		c.BufferSize != DefaultBufferSize || c.StopTimeout != DefaultStopTimeout {
		t.Errorf("unexpected defaults: %+v", c)
	}
}
