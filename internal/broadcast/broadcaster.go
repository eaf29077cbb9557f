// Package broadcast fans count updates out to in-process subscribers.
//
// Publish never blocks on a subscriber.  Each subscription owns a
// bounded buffer; when it is full the oldest buffered value is dropped
// to make room, so a slow reader skips intermediate counts but always
// ends up holding the latest one, and never sees values out of order.
package broadcast

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"countdown/internal/metrics"
)

// DefaultBuffer is the per-subscription buffer used when none is set.
const DefaultBuffer = 16

// Subscription is one subscriber's view of the published stream.
type Subscription struct {
	id      string
	ch      chan int
	b       *Broadcaster
	dropped atomic.Int64
	once    sync.Once
}

// ID returns the subscription's unique identifier.
func (s *Subscription) ID() string { return s.id }

// C returns the channel values are delivered on.  It is closed by
// Close or when the broadcaster shuts down.
func (s *Subscription) C() <-chan int { return s.ch }

// Dropped returns how many values were discarded because this
// subscriber fell behind.
func (s *Subscription) Dropped() int64 { return s.dropped.Load() }

// Close unsubscribes and closes C.  Safe to call more than once.
func (s *Subscription) Close() {
	if s.b == nil {
		s.once.Do(func() { close(s.ch) })
		return
	}
	s.b.remove(s)
}

// offer delivers v without blocking, evicting buffered values from
// the front until it fits.  Callers hold the broadcaster's lock, so
// nothing else writes to ch concurrently.
func (s *Subscription) offer(v int) (dropped bool) {
	for {
		select {
		case s.ch <- v:
			return dropped
		default:
		}
		select {
		case <-s.ch:
			s.dropped.Add(1)
			dropped = true
		default:
		}
	}
}

// Broadcaster delivers published values to every current subscriber.
type Broadcaster struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	closed  bool
	metrics *metrics.Collector
}

// New creates a broadcaster whose subscriptions buffer up to buffer
// values.  A buffer below 1 selects DefaultBuffer.
func New(buffer int, m *metrics.Collector) *Broadcaster {
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subs:    make(map[*Subscription]struct{}),
		buffer:  buffer,
		metrics: m,
	}
}

// Subscribe registers a new subscriber.  It sees only values published
// after this call returns.  After Close the returned subscription is
// already closed.
func (b *Broadcaster) Subscribe() *Subscription {
	s := &Subscription{
		id: uuid.NewString(),
		ch: make(chan int, b.buffer),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		s.once.Do(func() { close(s.ch) })
		return s
	}
	s.b = b
	b.subs[s] = struct{}{}
	b.metrics.SubscriberAdded()
	return s
}

// Publish delivers v to every subscriber.  It never fails and never
// waits for a reader.
func (b *Broadcaster) Publish(v int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.metrics.EventPublished()
	for s := range b.subs {
		if s.offer(v) {
			b.metrics.EventDropped()
		}
	}
}

// Len returns the number of active subscribers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscription and turns Publish into a no-op.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		delete(b.subs, s)
		s.once.Do(func() { close(s.ch) })
		b.metrics.SubscriberRemoved()
	}
}

func (b *Broadcaster) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[s]; ok {
		delete(b.subs, s)
		b.metrics.SubscriberRemoved()
	}
	s.once.Do(func() { close(s.ch) })
}
