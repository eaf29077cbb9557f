package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	cderr "countdown/internal/errors"
	"countdown/internal/metrics"
	"countdown/util"
)

// DefaultInterval is the decrement interval used when Options leaves
// it unset.
const DefaultInterval = time.Second

// Options configures a Controller.
type Options struct {
	// Interval between decrements (default DefaultInterval).
	Interval time.Duration
	// Publisher receives every committed count.  Nil discards updates.
	Publisher Publisher
	// Ticks paces tickers (default WallClock).
	Ticks TickSource
	// AnnounceReady publishes the initial count on Ready.
	AnnounceReady bool

	Logger  *util.Logger
	Metrics *metrics.Collector
}

type discard struct{}

func (discard) Publish(int) {}

// Controller is the command surface of the session and the only
// component allowed to mutate its State or to start and cancel a
// Ticker.
//
// cmdMu serialises commands so callers observe a linear sequence of
// transitions; state.mu guards the State itself and is shared with the
// active Ticker.  Lock order is always cmdMu then state.mu.
type Controller struct {
	cmdMu  sync.Mutex
	state  store
	run    *Ticker // guarded by state.mu
	closed bool    // guarded by cmdMu

	interval time.Duration
	pub      Publisher
	ticks    TickSource
	announce bool
	log      *util.Logger
	metrics  *metrics.Collector
}

// New creates a controller in mode Idle with count 0.
func New(opts Options) *Controller {
	c := &Controller{
		interval: opts.Interval,
		pub:      opts.Publisher,
		ticks:    opts.Ticks,
		announce: opts.AnnounceReady,
		log:      opts.Logger.Named("session"),
		metrics:  opts.Metrics,
	}
	if c.interval <= 0 {
		c.interval = DefaultInterval
	}
	if c.pub == nil {
		c.pub = discard{}
	}
	if c.ticks == nil {
		c.ticks = WallClock{}
	}
	return c
}

// Ready arms the session with an initial count.  It is rejected while
// Running, and n must be non-negative.
func (c *Controller) Ready(n int) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.closed {
		return c.reject(cderr.ErrClosed)
	}
	if n < 0 {
		return c.reject(cderr.Argument("ready", "count", n, "must be non-negative"))
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if c.state.st.Mode == Running {
		return c.reject(cderr.Transition("ready", c.state.st.Mode))
	}
	c.state.st.Count = n
	c.state.st.Mode = Ready
	if c.announce {
		c.pub.Publish(n)
	}
	c.metrics.CommandAccepted()
	c.log.Verbose("ready: count=%d", n)
	return nil
}

// Start begins counting down from the armed count.  It requires mode
// Ready and starts exactly one Ticker.
func (c *Controller) Start() error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.closed {
		return c.reject(cderr.ErrClosed)
	}

	c.state.mu.Lock()
	if mode := c.state.st.Mode; mode != Ready {
		c.state.mu.Unlock()
		return c.reject(cderr.Transition("start", mode))
	}
	prev := c.run
	c.state.mu.Unlock()

	// A previous run that finished on its own may still be unwinding.
	if prev != nil {
		<-prev.Done()
	}

	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	t := newTicker(uuid.NewString(), c.interval, &c.state, c.pub, c.ticks,
		c.log.Named("ticker"), c.metrics)
	c.run = t
	c.state.st.Mode = Running
	c.state.st.RunID = t.ID()
	t.start()

	c.metrics.CommandAccepted()
	c.metrics.RunStarted()
	c.log.Verbose("start: run %s from count=%d", t.ID(), c.state.st.Count)
	return nil
}

// Stop cancels the running Ticker and returns once it has halted; no
// decrement or publish happens after Stop returns.  The residual count
// is kept.
func (c *Controller) Stop() error {
	return c.StopContext(context.Background())
}

// StopContext is Stop with a bound on how long it waits for the ticker
// goroutine to exit.  Cancellation takes effect immediately either way:
// if ctx ends first the session is already Stopped and no further
// update will be published, and the error reports the pending join.
func (c *Controller) StopContext(ctx context.Context) error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.closed {
		return c.reject(cderr.ErrClosed)
	}
	return c.stopLocked(ctx)
}

func (c *Controller) stopLocked(ctx context.Context) error {
	c.state.mu.Lock()
	if mode := c.state.st.Mode; mode != Running {
		c.state.mu.Unlock()
		return c.reject(cderr.Transition("stop", mode))
	}
	// Cancelling under the state lock is what halts the ticker: it checks
	// ctx under the same lock before every decrement, so the session is
	// Stopped from here even while the join below is still pending.
	t := c.run
	t.halt()
	c.state.st.Mode = Stopped
	count := c.state.st.Count
	c.state.mu.Unlock()

	c.metrics.CommandAccepted()
	c.metrics.RunCancelled()
	if err := t.wait(ctx); err != nil {
		c.log.Warn("stop: run %s still exiting: %v", t.ID(), err)
		return fmt.Errorf("stop: waiting for run %s: %w", t.ID(), err)
	}
	c.log.Verbose("stop: run %s halted at count=%d", t.ID(), count)
	return nil
}

// Wait blocks until no Ticker is running or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	c.state.mu.Lock()
	t := c.run
	running := c.state.st.Mode == Running
	c.state.mu.Unlock()
	if !running || t == nil {
		return nil
	}
	return t.wait(ctx)
}

// Close stops an active run and rejects every later command with
// ErrClosed.
func (c *Controller) Close() error {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.state.mu.Lock()
	if c.state.st.Mode != Running {
		c.state.mu.Unlock()
		return nil
	}
	t := c.run
	t.halt()
	c.state.st.Mode = Stopped
	c.state.mu.Unlock()

	c.metrics.RunCancelled()
	c.log.Verbose("close: halting run %s", t.ID())
	return t.wait(context.Background())
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State { return c.state.snapshot() }

// Mode returns the current mode.
func (c *Controller) Mode() Mode { return c.state.snapshot().Mode }

// Count returns the current count.
func (c *Controller) Count() int { return c.state.snapshot().Count }

func (c *Controller) reject(err error) error {
	c.metrics.CommandRejected(err.Error())
	c.log.Debug("rejected: %v", err)
	return err
}
