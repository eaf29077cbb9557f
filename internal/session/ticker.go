package session

import (
	"context"
	"time"

	"countdown/internal/metrics"
	"countdown/util"
)

// Publisher receives every committed count.  Publish must not block.
type Publisher interface {
	Publish(count int)
}

// TickSource produces the interval signal that paces a Ticker.  The
// returned stop function releases the source.
type TickSource interface {
	Ticks(interval time.Duration) (<-chan time.Time, func())
}

// WallClock paces tickers with time.Ticker.
type WallClock struct{}

// Ticks implements TickSource.
func (WallClock) Ticks(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// Ticker is one running decrement process.  It is created by Start and
// ends when the count reaches zero or when Stop cancels it.
type Ticker struct {
	id       string
	interval time.Duration
	state    *store
	pub      Publisher
	ticks    TickSource
	log      *util.Logger
	metrics  *metrics.Collector

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newTicker(id string, interval time.Duration, state *store, pub Publisher,
	ticks TickSource, log *util.Logger, m *metrics.Collector) *Ticker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Ticker{
		id:       id,
		interval: interval,
		state:    state,
		pub:      pub,
		ticks:    ticks,
		log:      log,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// ID returns the run identifier.
func (t *Ticker) ID() string { return t.id }

// Done is closed once the ticker goroutine has exited.
func (t *Ticker) Done() <-chan struct{} { return t.done }

func (t *Ticker) start() {
	go t.run()
}

// halt signals cancellation.  The caller holds the state lock, so once
// halt returns no further decrement or publish can happen.
func (t *Ticker) halt() {
	t.cancel()
}

// wait blocks until the goroutine has exited or ctx is done.
func (t *Ticker) wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Ticker) run() {
	defer close(t.done)
	defer t.cancel()

	if t.finishIfZero() {
		return
	}

	c, stop := t.ticks.Ticks(t.interval)
	defer stop()

	for {
		select {
		case <-t.ctx.Done():
			t.log.Debug("run %s: cancelled", t.id)
			return
		case <-c:
		}
		if !t.step() {
			return
		}
	}
}

// finishIfZero completes the run without publishing when it starts at
// zero.
func (t *Ticker) finishIfZero() bool {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()
	if t.ctx.Err() != nil {
		return true
	}
	if t.state.st.Count > 0 {
		return false
	}
	t.complete()
	return true
}

// step commits one decrement and publishes it.  It reports whether the
// run continues.
func (t *Ticker) step() bool {
	t.state.mu.Lock()
	defer t.state.mu.Unlock()

	if t.ctx.Err() != nil {
		return false
	}
	if t.state.st.Count <= 0 {
		t.complete()
		return false
	}
	t.state.st.Count--
	n := t.state.st.Count
	t.metrics.Tick()
	t.pub.Publish(n)
	t.log.Debug("run %s: count=%d", t.id, n)

	if n == 0 {
		t.complete()
		return false
	}
	return true
}

// complete hands the session back to Idle.  Called with the state lock
// held.
func (t *Ticker) complete() {
	t.state.st.Mode = Idle
	t.metrics.RunCompleted()
	t.log.Verbose("run %s: completed", t.id)
}
