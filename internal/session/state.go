// Package session implements the countdown session controller.
//
// A Controller owns one long-lived State.  Commands (Ready, Start, Stop)
// are serialised by the controller; while the session is Running a
// single Ticker goroutine holds delegated write access and decrements
// the count once per interval, publishing every new value.  Every
// mutation, whichever goroutine makes it, happens under the state lock,
// so an update for n is published only once Count == n is committed and
// never after a later Stop or Ready.
package session

import "sync"

// Mode is the session's current phase.
type Mode int

const (
	Idle Mode = iota
	Ready
	Running
	Stopped
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Ready:
		return "Ready"
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// State is a point-in-time copy of the session.
type State struct {
	Mode  Mode
	Count int
	RunID string // current or most recent ticker run, empty before the first Start
}

// store is the single guarded session state shared by the controller and
// its active ticker.
type store struct {
	mu sync.Mutex
	st State
}

func (s *store) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}
