// Package core is the orchestration layer.  It assembles the session
// runtime (controller, broadcaster, metrics) from a Config and selects
// the driver mode that feeds it commands.
//
// Architecture layers (bottom → top):
//
//	broadcast, session  →  console  →  core  →  cmd (CLI)
//
// Build is the single dispatch point between the interactive line
// console, single-key terminal mode, and scripted runs.
package core

import (
	"context"
	"io"
	"os"

	"countdown/internal/console"
)

// Mode represents a complete way of driving the session.  Each mode
// owns its input loop from the first command until it returns.
type Mode interface {
	Run(ctx context.Context) error
}

// LineMode reads one command per line.
type LineMode struct {
	Console *console.Console
	In      io.Reader
}

// Run implements Mode.
func (m *LineMode) Run(ctx context.Context) error {
	return m.Console.RunLines(ctx, m.In)
}

// KeyMode maps single key presses on a raw terminal to commands.
type KeyMode struct {
	Console *console.Console
	TTY     *os.File
}

// Run implements Mode.
func (m *KeyMode) Run(ctx context.Context) error {
	return m.Console.RunKeys(ctx, m.TTY)
}

// ScriptMode executes a fixed list of commands and returns.
type ScriptMode struct {
	Console *console.Console
	Lines   []string
}

// Run implements Mode.
func (m *ScriptMode) Run(ctx context.Context) error {
	return m.Console.RunScript(ctx, m.Lines)
}
