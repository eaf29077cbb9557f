// Package cmd wires up the CLI flags and dispatches to the session core.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"countdown/config"
	"countdown/internal/core"
	"countdown/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X countdown/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the selected countdown mode on the
// process's stdin and stdout.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, args, os.Stdin, os.Stdout)
}

func execute(ctx context.Context, args []string, stdin *os.File, stdout io.Writer) error {
	flags := config.Default()
	fs := flag.NewFlagSet("countdown", flag.ContinueOnError)

	// ── session ──────────────────────────────────────────────────
	fs.DurationVarP(&flags.Interval, "interval", "i", flags.Interval, "Decrement interval")
	fs.IntVarP(&flags.InitialCount, "count", "n", flags.InitialCount, "Count used by a bare 'ready'")
	fs.BoolVar(&flags.AnnounceReady, "announce-ready", false, "Publish the initial count on ready")
	fs.DurationVar(&flags.StopTimeout, "stop-timeout", flags.StopTimeout, "Bound on waiting for a stopped countdown")

	// ── events ───────────────────────────────────────────────────
	fs.IntVarP(&flags.BufferSize, "buffer", "b", flags.BufferSize, "Per-subscriber update buffer")

	// ── driver ───────────────────────────────────────────────────
	fs.BoolVarP(&flags.Keys, "keys", "k", false, "Single-key mode on a terminal (r/s/x/q)")
	fs.StringVarP(&flags.Exec, "exec", "e", "", "Run a ';'-separated command script then exit")
	fs.BoolVar(&flags.Stats, "stats", false, "Print metrics JSON on exit")

	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML config file")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&flags.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&dryRun, "dry-run", false, "Validate configuration, print it and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "countdown %s\n", version)
		return nil
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument %q (use --help for usage)", fs.Arg(0))
	}

	// ── resolve ──────────────────────────────────────────────────
	cfg, err := resolve(fs, flags, configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dryRun {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s", out)
		return nil
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	rt := core.NewRuntime(cfg, logger)

	mode, err := core.Build(rt, core.IO{In: stdin, Out: stdout})
	if err != nil {
		rt.Shutdown() //nolint:errcheck
		return err
	}

	runErr := mode.Run(ctx)
	if err := rt.Shutdown(); err != nil {
		logger.Warn("shutdown: %v", err)
	}
	if cfg.Stats {
		fmt.Fprintln(stdout, rt.Metrics.JSON())
	}
	return runErr
}

// ── helpers ──────────────────────────────────────────────────────────

// resolve layers defaults, the config file, the environment and the
// flags the user actually set, in that order.
func resolve(fs *flag.FlagSet, flags *config.Config, configPath string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := config.LoadFile(configPath, cfg); err != nil {
			return nil, err
		}
	}
	config.LoadFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "interval":
			cfg.Interval = flags.Interval
		case "count":
			cfg.InitialCount = flags.InitialCount
		case "announce-ready":
			cfg.AnnounceReady = flags.AnnounceReady
		case "stop-timeout":
			cfg.StopTimeout = flags.StopTimeout
		case "buffer":
			cfg.BufferSize = flags.BufferSize
		case "keys":
			cfg.Keys = flags.Keys
		case "exec":
			cfg.Exec = flags.Exec
		case "stats":
			cfg.Stats = flags.Stats
		case "verbose":
			// -v counts up from the resolved level.
			cfg.Verbose += flags.Verbose
		}
	})
	return cfg, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `countdown – countdown session controller v%s

Arms a count, decrements it once per interval and prints every update.

Usage:
  countdown [options]                         Line console on stdin
  countdown -k [options]                      Single-key terminal mode
  countdown -e "ready 5; start; wait"         Run a script and exit

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Console commands:
  ready [n]  start  stop  status  stats  wait  sleep <d>  help  quit

Examples:
  countdown -i 250ms -e "ready 10; start; wait"
  countdown -k -n 30                          r=ready s=start x=stop q=quit
  COUNTDOWN_INTERVAL=2s countdown --stats
`)
}
