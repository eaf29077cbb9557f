package console

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"countdown/internal/broadcast"
	cderr "countdown/internal/errors"
	"countdown/internal/metrics"
	"countdown/internal/session"
)

func newTestConsole(t *testing.T, initial int) (*Console, *bytes.Buffer) {
	t.Helper()
	m := metrics.New()
	bus := broadcast.New(32, m)
	ctl := session.New(session.Options{
		Interval:  time.Millisecond,
		Publisher: bus,
		Metrics:   m,
	})
	t.Cleanup(func() { ctl.Close() })

	var out bytes.Buffer
	c := New(ctl, bus, &out, Options{
		InitialCount: initial,
		StopTimeout:  time.Second,
		Metrics:      m,
	})
	return c, &out
}

func TestParse(t *testing.T) {
	tests := []struct {
		line    string
		want    Command
		wantErr bool
	}{
		{"ready 5", Command{Name: "ready", Count: 5}, false},
		{"READY", Command{Name: "ready", Bare: true}, false},
		{"ready -1", Command{Name: "ready", Count: -1}, false},
		{"  start  ", Command{Name: "start"}, false},
		{"exit", Command{Name: "quit"}, false},
		{"sleep 15ms", Command{Name: "sleep", Delay: 15 * time.Millisecond}, false},
		{"", Command{}, true},
		{"ready five", Command{}, true},
		{"ready 1 2", Command{}, true},
		{"stop now", Command{}, true},
		{"sleep", Command{}, true},
		{"sleep -1s", Command{}, true},
		{"launch", Command{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := Parse(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunScript_Countdown(t *testing.T) {
	c, out := newTestConsole(t, 10)

	err := c.RunScript(context.Background(), []string{"ready 3", "start", "wait", "status"})
	if err != nil {
		t.Fatalf("RunScript: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Count: 2\n", "Count: 1\n", "Count: 0\n", "Idle count=0\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Count: 2") > strings.Index(got, "Count: 0") {
		t.Errorf("updates out of order:\n%s", got)
	}
}

func TestRunScript_StopsOnError(t *testing.T) {
	c, out := newTestConsole(t, 10)

	err := c.RunScript(context.Background(), []string{"start", "status"})
	if !cderr.IsInvalidTransition(err) {
		t.Fatalf("RunScript = %v, want invalid transition", err)
	}
	if !strings.Contains(err.Error(), `script[0] "start"`) {
		t.Errorf("error should name the failing line: %v", err)
	}
	if strings.Contains(out.String(), "count=") {
		t.Errorf("status should not have run:\n%s", out.String())
	}
}

func TestRunScript_BareReady(t *testing.T) {
	c, out := newTestConsole(t, 7)

	if err := c.RunScript(context.Background(), []string{"ready", "status"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Ready count=7") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunScript_StopKeepsCount(t *testing.T) {
	c, out := newTestConsole(t, 10)

	script := []string{"ready 100000", "start", "sleep 5ms", "stop", "status", "stats"}
	if err := c.RunScript(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Stopped count=") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `"runs_cancelled": 1`) {
		t.Errorf("stats missing cancelled run:\n%s", out.String())
	}
}

func TestRunLines(t *testing.T) {
	c, out := newTestConsole(t, 10)
	in := strings.NewReader("ready 2\nstart\nwait\n\nstop\nbogus\nstatus\nquit\nstatus\n")

	if err := c.RunLines(context.Background(), in); err != nil {
		t.Fatalf("RunLines: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Count: 1\n",
		"Count: 0\n",
		"error: stop: invalid transition from Idle\n",
		`error: unknown command "bogus"`,
		"Idle count=0\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "count=") != 1 {
		t.Errorf("commands after quit should not run:\n%s", got)
	}
}

func TestRunLines_EOF(t *testing.T) {
	c, _ := newTestConsole(t, 10)
	if err := c.RunLines(context.Background(), strings.NewReader("ready 1\n")); err != nil {
		t.Fatalf("RunLines at EOF: %v", err)
	}
}

// settleGoroutines waits for the goroutine count to drop to at most
// limit and returns the last count seen.
func settleGoroutines(limit int) int {
	deadline := time.Now().Add(2 * time.Second)
	n := runtime.NumGoroutine()
	for n > limit && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		n = runtime.NumGoroutine()
	}
	return n
}

func TestRunLines_QuitReleasesReader(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		c, _ := newTestConsole(t, 10)
		in := strings.NewReader("quit\nstatus\nstatus\n")
		if err := c.RunLines(context.Background(), in); err != nil {
			t.Fatalf("RunLines: %v", err)
		}
	}
	if n := settleGoroutines(before + 5); n > before+5 {
		t.Errorf("goroutines = %d after quitting with pending input, started with %d", n, before)
	}
}

func TestRunKeys_QuitReleasesReader(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 20; i++ {
		c, _ := newTestConsole(t, 10)
		if err := c.runKeys(context.Background(), strings.NewReader("q   "), "\r\n"); err != nil {
			t.Fatalf("runKeys: %v", err)
		}
	}
	if n := settleGoroutines(before + 5); n > before+5 {
		t.Errorf("goroutines = %d after quitting with pending keys, started with %d", n, before)
	}
}

func TestRunKeys(t *testing.T) {
	c, out := newTestConsole(t, 4)

	if err := c.runKeys(context.Background(), strings.NewReader("rz q"), "\r\n"); err != nil {
		t.Fatalf("runKeys: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "r=ready(4)") {
		t.Errorf("missing key legend:\n%q", got)
	}
	if !strings.Contains(got, "Ready count=4\r\n") {
		t.Errorf("status should use raw-mode line endings:\n%q", got)
	}
}

func TestRunKeys_EOF(t *testing.T) {
	c, _ := newTestConsole(t, 4)
	if err := c.runKeys(context.Background(), strings.NewReader("r"), "\r\n"); err != nil {
		t.Fatalf("runKeys at EOF: %v", err)
	}
}
