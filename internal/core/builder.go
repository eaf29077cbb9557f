package core

import (
	"context"
	"io"
	"os"

	"countdown/config"
	"countdown/internal/broadcast"
	"countdown/internal/console"
	cderr "countdown/internal/errors"
	"countdown/internal/metrics"
	"countdown/internal/session"
	"countdown/util"
)

// Runtime holds the long-lived session components every mode drives.
type Runtime struct {
	Config     *config.Config
	Controller *session.Controller
	Bus        *broadcast.Broadcaster
	Metrics    *metrics.Collector
	Logger     *util.Logger
}

// NewRuntime wires a controller to a broadcaster using cfg.
func NewRuntime(cfg *config.Config, logger *util.Logger) *Runtime {
	m := metrics.New()
	bus := broadcast.New(cfg.BufferSize, m)
	ctl := session.New(session.Options{
		Interval:      cfg.Interval,
		Publisher:     bus,
		AnnounceReady: cfg.AnnounceReady,
		Logger:        logger,
		Metrics:       m,
	})
	return &Runtime{
		Config:     cfg,
		Controller: ctl,
		Bus:        bus,
		Metrics:    m,
		Logger:     logger,
	}
}

// Shutdown stops a running countdown, waiting at most the configured
// stop timeout, then closes the controller and the broadcaster.
func (r *Runtime) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.Config.StopTimeout)
	defer cancel()

	var errs []error
	if r.Controller.Mode() == session.Running {
		err := r.Controller.StopContext(ctx)
		if err != nil && !cderr.IsInvalidTransition(err) && !cderr.Is(err, cderr.ErrClosed) {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		if err := r.Controller.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.Bus.Close()
	return cderr.Join(errs...)
}

// IO is the terminal a mode talks to.
type IO struct {
	In  *os.File
	Out io.Writer
}

// Build constructs the appropriate Mode from the runtime's
// configuration.
func Build(rt *Runtime, stdio IO) (Mode, error) {
	cfg := rt.Config
	newConsole := func(prompt bool) *console.Console {
		return console.New(rt.Controller, rt.Bus, stdio.Out, console.Options{
			InitialCount: cfg.InitialCount,
			StopTimeout:  cfg.StopTimeout,
			Prompt:       prompt,
			Metrics:      rt.Metrics,
			Logger:       rt.Logger,
		})
	}

	switch {
	case cfg.Exec != "":
		lines, err := config.ParseScript(cfg.Exec)
		if err != nil {
			return nil, err
		}
		return &ScriptMode{Console: newConsole(false), Lines: lines}, nil
	case cfg.Keys:
		return &KeyMode{Console: newConsole(false), TTY: stdio.In}, nil
	default:
		interactive := stdio.In != nil && console.IsTerminal(stdio.In)
		var in io.Reader = stdio.In
		if stdio.In == nil {
			in = eofReader{}
		}
		return &LineMode{Console: newConsole(interactive), In: in}, nil
	}
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
