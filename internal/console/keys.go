package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// keyCommands maps single key presses to console lines.
var keyCommands = map[byte]string{
	'r': "ready",
	's': "start",
	'x': "stop",
	' ': "status",
	'?': "help",
	'q': "quit",
	3:   "quit", // Ctrl-C arrives as a byte in raw mode
	4:   "quit", // Ctrl-D
}

// RunKeys puts the terminal on in into raw mode and maps key presses to
// commands until 'q', Ctrl-C, or ctx ends.  The terminal is restored on
// return.
func (c *Console) RunKeys(ctx context.Context, in *os.File) error {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("key mode needs a terminal on stdin")
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old) //nolint:errcheck

	return c.runKeys(ctx, in, "\r\n")
}

// runKeys is the terminal-independent part of RunKeys.
func (c *Console) runKeys(ctx context.Context, in io.Reader, eol string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	c.eol = eol
	c.mu.Unlock()

	done := c.watch(c.bus.Subscribe())
	defer func() {
		c.bus.Close()
		<-done
	}()

	c.printf("r=ready(%d) s=start x=stop space=status q=quit", c.opts.InitialCount)

	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := in.Read(buf)
			if err != nil {
				readErr <- err
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err == io.EOF {
				return nil
			}
			return err
		case k := <-keys:
			line, ok := keyCommands[k]
			if !ok {
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
