// Package errors provides domain-specific error types for countdown.
//
// Every rejection produced by the session controller is one of these
// types.  They carry the operation and the offending mode or value so a
// caller can report exactly why a command was refused, while errors.Is
// against the sentinels below still classifies them.
package errors

import (
	"errors"
	"fmt"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrClosed            = errors.New("session is closed")
)

// ── Structured error types ───────────────────────────────────────────

// TransitionError reports a command issued in a mode that does not
// permit it.
type TransitionError struct {
	Op   string // command: "ready", "start", "stop"
	From string // mode the session was in
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: invalid transition from %s", e.Op, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// ArgumentError reports an out-of-domain command argument.
type ArgumentError struct {
	Op      string
	Name    string
	Value   interface{}
	Message string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s=%v: %s", e.Op, e.Name, e.Value, e.Message)
}

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Transition creates a TransitionError for op attempted from mode.
func Transition(op string, from fmt.Stringer) *TransitionError {
	return &TransitionError{Op: op, From: from.String()}
}

// Argument creates an ArgumentError.
func Argument(op, name string, value interface{}, msg string) *ArgumentError {
	return &ArgumentError{Op: op, Name: name, Value: value, Message: msg}
}

// ── Classification helpers ───────────────────────────────────────────

// IsInvalidTransition reports whether err rejects a command because of
// the session mode.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsInvalidArgument reports whether err rejects a command argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use countdown/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
