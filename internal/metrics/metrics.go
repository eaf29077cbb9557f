// Package metrics provides lightweight, lock-free counters and gauges
// for tracking runtime statistics of a countdown session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a countdown session.
// A nil Collector is safe to use: all methods become no-ops.
type Collector struct {
	commandsAccepted atomic.Int64
	commandsRejected atomic.Int64
	runsStarted      atomic.Int64
	runsCompleted    atomic.Int64
	runsCancelled    atomic.Int64
	ticks            atomic.Int64
	eventsPublished  atomic.Int64
	eventsDropped    atomic.Int64
	subscribers      atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastTick     time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Command metrics ──────────────────────────────────────────────────

// CommandAccepted records a command that changed the session.
func (c *Collector) CommandAccepted() {
	if c == nil {
		return
	}
	c.commandsAccepted.Add(1)
}

// CommandRejected records a refused command and keeps its message.
func (c *Collector) CommandRejected(msg string) {
	if c == nil {
		return
	}
	c.commandsRejected.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// CommandsAccepted returns the accepted command count.
func (c *Collector) CommandsAccepted() int64 {
	if c == nil {
		return 0
	}
	return c.commandsAccepted.Load()
}

// CommandsRejected returns the rejected command count.
func (c *Collector) CommandsRejected() int64 {
	if c == nil {
		return 0
	}
	return c.commandsRejected.Load()
}

// ── Run metrics ──────────────────────────────────────────────────────

// RunStarted records a new ticker run.
func (c *Collector) RunStarted() {
	if c == nil {
		return
	}
	c.runsStarted.Add(1)
}

// RunCompleted records a run that counted down to zero.
func (c *Collector) RunCompleted() {
	if c == nil {
		return
	}
	c.runsCompleted.Add(1)
}

// RunCancelled records a run halted by stop.
func (c *Collector) RunCancelled() {
	if c == nil {
		return
	}
	c.runsCancelled.Add(1)
}

// RunsStarted returns the number of runs started.
func (c *Collector) RunsStarted() int64 {
	if c == nil {
		return 0
	}
	return c.runsStarted.Load()
}

// RunsCompleted returns the number of runs that reached zero.
func (c *Collector) RunsCompleted() int64 {
	if c == nil {
		return 0
	}
	return c.runsCompleted.Load()
}

// RunsCancelled returns the number of cancelled runs.
func (c *Collector) RunsCancelled() int64 {
	if c == nil {
		return 0
	}
	return c.runsCancelled.Load()
}

// Tick records one committed decrement.
func (c *Collector) Tick() {
	if c == nil {
		return
	}
	c.ticks.Add(1)
	c.mu.Lock()
	c.lastTick = time.Now()
	c.mu.Unlock()
}

// Ticks returns the total number of decrements.
func (c *Collector) Ticks() int64 {
	if c == nil {
		return 0
	}
	return c.ticks.Load()
}

// ── Event metrics ────────────────────────────────────────────────────

// EventPublished records one published value.
func (c *Collector) EventPublished() {
	if c == nil {
		return
	}
	c.eventsPublished.Add(1)
}

// EventDropped records a value discarded from a full subscriber buffer.
func (c *Collector) EventDropped() {
	if c == nil {
		return
	}
	c.eventsDropped.Add(1)
}

// EventsPublished returns the total number of published values.
func (c *Collector) EventsPublished() int64 {
	if c == nil {
		return 0
	}
	return c.eventsPublished.Load()
}

// EventsDropped returns how many buffered values were discarded.
func (c *Collector) EventsDropped() int64 {
	if c == nil {
		return 0
	}
	return c.eventsDropped.Load()
}

// SubscriberAdded increments the active subscriber gauge.
func (c *Collector) SubscriberAdded() {
	if c == nil {
		return
	}
	c.subscribers.Add(1)
}

// SubscriberRemoved decrements the active subscriber gauge.
func (c *Collector) SubscriberRemoved() {
	if c == nil {
		return
	}
	c.subscribers.Add(-1)
}

// Subscribers returns the number of open subscriptions.
func (c *Collector) Subscribers() int64 {
	if c == nil {
		return 0
	}
	return c.subscribers.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	CommandsAccepted int64  `json:"commands_accepted"`
	CommandsRejected int64  `json:"commands_rejected"`
	RunsStarted      int64  `json:"runs_started"`
	RunsCompleted    int64  `json:"runs_completed"`
	RunsCancelled    int64  `json:"runs_cancelled"`
	Ticks            int64  `json:"ticks"`
	EventsPublished  int64  `json:"events_published"`
	EventsDropped    int64  `json:"events_dropped"`
	Subscribers      int64  `json:"subscribers"`
	LastTick         string `json:"last_tick,omitempty"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:           time.Since(c.startTime).Truncate(time.Second).String(),
		CommandsAccepted: c.commandsAccepted.Load(),
		CommandsRejected: c.commandsRejected.Load(),
		RunsStarted:      c.runsStarted.Load(),
		RunsCompleted:    c.runsCompleted.Load(),
		RunsCancelled:    c.runsCancelled.Load(),
		Ticks:            c.ticks.Load(),
		EventsPublished:  c.eventsPublished.Load(),
		EventsDropped:    c.eventsDropped.Load(),
		Subscribers:      c.subscribers.Load(),
	}
	if !c.lastTick.IsZero() {
		s.LastTick = c.lastTick.Format(time.RFC3339)
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
