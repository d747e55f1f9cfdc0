// Package main is a demo host for the termflux event engine: it wires
// a terminal source, a config file, and an optional Lua init script to
// a reactor, then echoes events until quit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/termflux/termflux/internal/config"
	"github.com/termflux/termflux/internal/emitter"
	"github.com/termflux/termflux/internal/events"
	"github.com/termflux/termflux/internal/log"
	"github.com/termflux/termflux/internal/reactor"
	"github.com/termflux/termflux/internal/script"
	"github.com/termflux/termflux/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const quitKey = "ctrl+q"

type cliOptions struct {
	configPath string
	scriptPath string
	logLevel   string
	logFile    string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	loader, err := config.NewLoader(opts.configPath, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	cfg := loader.Config()

	logger, cleanup, err := buildLogger(cfg, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer cleanup()

	r := reactor.New(append(cfg.ReactorOptions(), reactor.WithLogger(logger))...)

	// Live-reload the runtime tunables on config changes.
	loader.OnChange(func(cfg *config.Config) {
		r.SetIdleInterval(cfg.IdleInterval())
		r.SetMaxEventsPerTick(cfg.Events.MaxEventsPerTick)
	})
	if opts.configPath != "" {
		if stopWatch, err := loader.Watch(); err == nil {
			defer stopWatch()
		} else {
			logger.Warn("config watch unavailable: %v", err)
		}
	}

	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	if err := subscribe(r, logger, requestQuit); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := r.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start reactor: %v\n", err)
		return 1
	}

	term, err := terminal.New(r, terminal.Config{
		Mouse:          *cfg.Input.Mouse,
		BracketedPaste: *cfg.Input.BracketedPaste,
		FocusEvents:    *cfg.Input.FocusEvents,
		Logger:         logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open terminal: %v\n", err)
		r.Stop(context.Background())
		return 1
	}
	if err := term.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start terminal: %v\n", err)
		r.Stop(context.Background())
		return 1
	}

	scriptPath := opts.scriptPath
	if scriptPath == "" {
		scriptPath = cfg.Script.Init
	}
	var engine *script.Engine
	if scriptPath != "" {
		engine = script.New(r, logger)
		if err := engine.DoFile(scriptPath); err != nil {
			logger.Error("init script failed: %v", err)
		}
	}

	logger.Info("termflux %s ready, press %s to quit", version, quitKey)
	<-quit

	term.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Stop(ctx); err != nil {
		logger.Warn("drain incomplete: %v", err)
	}
	if engine != nil {
		engine.Close()
	}
	return 0
}

// subscribe registers the demo's listeners: an event echo, the quit
// key, and quit-on-signal.
func subscribe(r *reactor.Reactor, logger *log.Logger, requestQuit func()) error {
	em := r.Emitter()

	_, err := em.On(events.KindWildcard, emitter.HandlerFunc(func(_ context.Context, ev events.Event) error {
		logger.Debug("event %s", describe(ev))
		return nil
	}))
	if err != nil {
		return err
	}

	_, err = em.On(events.KindKey, emitter.HandlerFunc(func(_ context.Context, ev events.Event) error {
		if ke, ok := ev.(*events.KeyEvent); ok && ke.String() == quitKey {
			requestQuit()
		}
		return nil
	}))
	if err != nil {
		return err
	}

	_, err = em.On(events.KindSignal, emitter.HandlerFunc(func(_ context.Context, ev events.Event) error {
		se, ok := ev.(*events.SignalEvent)
		if !ok {
			return nil
		}
		switch se.Signal {
		case events.SignalInterrupt, events.SignalTerminate, events.SignalHangup:
			requestQuit()
		}
		return nil
	}))
	return err
}

func describe(ev events.Event) string {
	switch e := ev.(type) {
	case *events.KeyEvent:
		return fmt.Sprintf("key %s", e)
	case *events.PointerEvent:
		return fmt.Sprintf("pointer action=%d button=%d at %d,%d", e.Action, e.Button, e.X, e.Y)
	case *events.ResizeEvent:
		return fmt.Sprintf("resize %dx%d -> %dx%d", e.OldCols, e.OldRows, e.Cols, e.Rows)
	case *events.FocusEvent:
		return fmt.Sprintf("focus gained=%t", e.Gained)
	case *events.PasteEvent:
		return fmt.Sprintf("paste %d chars", len(e.Text))
	case *events.SignalEvent:
		return fmt.Sprintf("signal %s", e.Signal)
	case *events.CustomEvent:
		return fmt.Sprintf("custom %s", e.Name)
	default:
		return ev.Kind().String()
	}
}

// buildLogger picks the output and level. While the terminal is in raw
// mode stderr is unusable, so a log file is required for any output.
func buildLogger(cfg *config.Config, opts cliOptions) (*log.Logger, func(), error) {
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	file := cfg.Log.File
	if opts.logFile != "" {
		file = opts.logFile
	}
	if file == "" {
		return log.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.New(log.Config{
		Level:  log.ParseLevel(level),
		Output: f,
		Prefix: "termflux",
	})
	return logger, func() { f.Close() }, nil
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Lua init script (overrides config)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.logFile, "log-file", "", "Log file path")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "termflux - terminal event engine demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: termflux [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  termflux                          Run with defaults\n")
		fmt.Fprintf(os.Stderr, "  termflux -c termflux.yaml         Run with a config file\n")
		fmt.Fprintf(os.Stderr, "  termflux -script init.lua         Run an init script\n")
		fmt.Fprintf(os.Stderr, "  termflux -log-file termflux.log   Log events to a file\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("termflux %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}
