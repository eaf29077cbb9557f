package errors

import (
	"fmt"
	"testing"
)

type modeName string

func (m modeName) String() string { return string(m) }

func TestTransitionError_Format(t *testing.T) {
	err := Transition("start", modeName("Idle"))
	want := "start: invalid transition from Idle"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTransitionError_Unwrap(t *testing.T) {
	err := Transition("stop", modeName("Ready"))
	if !Is(err, ErrInvalidTransition) {
		t.Error("should unwrap to ErrInvalidTransition")
	}
	if Is(err, ErrInvalidArgument) {
		t.Error("should not match ErrInvalidArgument")
	}
}

func TestArgumentError_Format(t *testing.T) {
	err := Argument("ready", "count", -1, "must be non-negative")
	want := "ready: count=-1: must be non-negative"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !IsInvalidArgument(err) {
		t.Error("should classify as invalid argument")
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "interval",
				Value:   "0s",
				Message: "must be positive",
				Hint:    "use a duration such as 1s or 250ms",
			},
			want: "config: --interval=0s: must be positive\n  hint: use a duration such as 1s or 250ms",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "exec",
				Message: "cannot be combined with --keys",
			},
			want: "config: --exec: cannot be combined with --keys",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestClassification_Wrapped(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantTransition bool
		wantArgument   bool
	}{
		{"nil", nil, false, false},
		{"plain", fmt.Errorf("boom"), false, false},
		{"transition", Transition("ready", modeName("Running")), true, false},
		{"wrapped transition", fmt.Errorf("console: %w", Transition("stop", modeName("Idle"))), true, false},
		{"argument", Argument("ready", "count", -3, "negative"), false, true},
		{"joined", Join(fmt.Errorf("x"), Argument("ready", "count", -3, "negative")), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvalidTransition(tt.err); got != tt.wantTransition {
				t.Errorf("IsInvalidTransition() = %v, want %v", got, tt.wantTransition)
			}
			if got := IsInvalidArgument(tt.err); got != tt.wantArgument {
				t.Errorf("IsInvalidArgument() = %v, want %v", got, tt.wantArgument)
			}
		})
	}
}

func TestAs_TransitionError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Transition("start", modeName("Stopped")))
	var te *TransitionError
	if !As(err, &te) {
		t.Fatal("As should find TransitionError")
	}
	if te.Op != "start" || te.From != "Stopped" {
		t.Errorf("wrong fields: Op=%q From=%q", te.Op, te.From)
	}
}

func TestSentinels(t *testing.T) {
	// Verify sentinel errors are distinct.
	sentinels := []error{ErrInvalidTransition, ErrInvalidArgument, ErrClosed}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
