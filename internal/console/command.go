package console

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Command is one parsed console line.
type Command struct {
	Name  string
	Count int           // ready
	Delay time.Duration // sleep
	Bare  bool          // ready without an argument
}

// Parse turns a console line into a Command.  Names are
// case-insensitive; "ready" takes an optional count, "sleep" a Go
// duration.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	cmd := Command{Name: strings.ToLower(fields[0])}
	args := fields[1:]

	switch cmd.Name {
	case "ready":
		if len(args) > 1 {
			return Command{}, fmt.Errorf("ready takes at most one count")
		}
		if len(args) == 0 {
			cmd.Bare = true
			return cmd, nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Command{}, fmt.Errorf("ready: invalid count %q", args[0])
		}
		cmd.Count = n
	case "sleep":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("sleep takes one duration")
		}
		d, err := time.ParseDuration(args[0])
		if err != nil || d < 0 {
			return Command{}, fmt.Errorf("sleep: invalid duration %q", args[0])
		}
		cmd.Delay = d
	case "start", "stop", "status", "stats", "wait", "help", "quit", "exit":
		if len(args) != 0 {
			return Command{}, fmt.Errorf("%s takes no arguments", cmd.Name)
		}
		if cmd.Name == "exit" {
			cmd.Name = "quit"
		}
	default:
		return Command{}, fmt.Errorf("unknown command %q (try help)", cmd.Name)
	}
	return cmd, nil
}

const helpText = `commands:
  ready [n]     arm the session with count n
  start         start counting down
  stop          stop the countdown and keep the count
  status        show mode and count
  stats         show session metrics
  wait          block until the countdown finishes
  sleep <d>     pause the script, e.g. sleep 1500ms
  quit          leave`
