package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultInterval is the time between two decrements.
	DefaultInterval = time.Second

	// DefaultInitialCount is the count armed by key mode's 'r' and by a
	// bare "ready" console command.
	DefaultInitialCount = 10

	// DefaultBufferSize is how many updates a subscriber may fall behind
	// before the oldest are discarded.
	DefaultBufferSize = 16

	// DefaultStopTimeout bounds how long the driver waits for a ticker
	// to exit on stop or shutdown.
	DefaultStopTimeout = 5 * time.Second
)
