// Package console drives a session controller from text or key
// presses and prints the count updates it publishes.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"countdown/internal/broadcast"
	"countdown/internal/metrics"
	"countdown/internal/session"
	"countdown/util"
)

// Controller is the command surface the console drives.
type Controller interface {
	Ready(n int) error
	Start() error
	StopContext(ctx context.Context) error
	Wait(ctx context.Context) error
	Snapshot() session.State
}

// Options configures a Console.
type Options struct {
	InitialCount int           // count used by a bare "ready"
	StopTimeout  time.Duration // bound on waiting for a ticker to exit
	Prompt       bool          // print a prompt before each line
	Metrics      *metrics.Collector
	Logger       *util.Logger
}

// Console binds a controller and its update stream to a writer.
type Console struct {
	ctl  Controller
	bus  *broadcast.Broadcaster
	opts Options
	log  *util.Logger

	mu  sync.Mutex // guards out and eol
	out io.Writer
	eol string
}

// New returns a console writing to out.
func New(ctl Controller, bus *broadcast.Broadcaster, out io.Writer, opts Options) *Console {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = 5 * time.Second
	}
	return &Console{
		ctl:  ctl,
		bus:  bus,
		opts: opts,
		log:  opts.Logger.Named("console"),
		out:  out,
		eol:  "\n",
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func (c *Console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+c.eol, args...)
}

// watch prints every update until the subscription closes.  Buffered
// updates are still printed after Close.
func (c *Console) watch(sub *broadcast.Subscription) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for v := range sub.C() {
			c.printf("Count: %d", v)
		}
		if n := sub.Dropped(); n > 0 {
			c.log.Verbose("subscriber %s skipped %d updates", sub.ID(), n)
		}
	}()
	return done
}

// Exec runs a single command line.  It reports whether the console
// should quit.
func (c *Console) Exec(ctx context.Context, line string) (bool, error) {
	cmd, err := Parse(line)
	if err != nil {
		return false, err
	}
	return c.run(ctx, cmd)
}

func (c *Console) run(ctx context.Context, cmd Command) (bool, error) {
	switch cmd.Name {
	case "ready":
		n := cmd.Count
		if cmd.Bare {
			n = c.opts.InitialCount
		}
		return false, c.ctl.Ready(n)
	case "start":
		return false, c.ctl.Start()
	case "stop":
		ctx, cancel := context.WithTimeout(ctx, c.opts.StopTimeout)
		defer cancel()
		return false, c.ctl.StopContext(ctx)
	case "status":
		st := c.ctl.Snapshot()
		c.printf("%s count=%d", st.Mode, st.Count)
	case "stats":
		c.printf("%s", c.opts.Metrics.JSON())
	case "wait":
		return false, c.ctl.Wait(ctx)
	case "sleep":
		select {
		case <-time.After(cmd.Delay):
		case <-ctx.Done():
			return false, ctx.Err()
		}
	case "help":
		c.printf("%s", helpText)
	case "quit":
		return true, nil
	}
	return false, nil
}

// RunLines reads commands line by line until EOF, quit, or ctx ends.
// Command errors are printed and the loop continues.
func (c *Console) RunLines(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // releases the reader if we quit with input pending

	done := c.watch(c.bus.Subscribe())
	defer func() {
		c.bus.Close()
		<-done
	}()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		if c.opts.Prompt {
			c.mu.Lock()
			fmt.Fprint(c.out, "> ")
			c.mu.Unlock()
		}
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			if line == "" {
				continue
			}
			quit, err := c.Exec(ctx, line)
			if err != nil {
				c.printf("error: %v", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// RunScript executes lines in order and stops at the first failing
// command.
func (c *Console) RunScript(ctx context.Context, lines []string) error {
	done := c.watch(c.bus.Subscribe())
	defer func() {
		c.bus.Close()
		<-done
	}()

	for i, line := range lines {
		c.log.Verbose("script[%d]: %s", i, line)
		quit, err := c.Exec(ctx, line)
		if err != nil {
			return fmt.Errorf("script[%d] %q: %w", i, line, err)
		}
		if quit {
			return nil
		}
	}
	return nil
}
