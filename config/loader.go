package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Config file  (file.go)
//   4. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the COUNTDOWN_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).  Durations use Go
// syntax ("250ms", "2s").  Unparseable values are ignored.

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.
func LoadFromEnv(cfg *Config) {
	if v, ok := envDuration("COUNTDOWN_INTERVAL"); ok {
		cfg.Interval = v
	}
	if v, ok := envInt("COUNTDOWN_COUNT"); ok {
		cfg.InitialCount = v
	}
	if v, ok := envInt("COUNTDOWN_BUFFER"); ok {
		cfg.BufferSize = v
	}
	if envBool("COUNTDOWN_ANNOUNCE_READY") {
		cfg.AnnounceReady = true
	}
	if v, ok := envDuration("COUNTDOWN_STOP_TIMEOUT"); ok {
		cfg.StopTimeout = v
	}
	if envBool("COUNTDOWN_STATS") {
		cfg.Stats = true
	}

	// Output
	if v, ok := envInt("COUNTDOWN_VERBOSE"); ok {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}
