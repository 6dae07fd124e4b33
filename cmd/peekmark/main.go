// Package main is the entry point for peekmark.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dshills/peekmark/internal/app"
	"github.com/dshills/peekmark/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type flags struct {
	opts     app.Options
	logPath  string
	logLevel string
}

func main() {
	os.Exit(run())
}

func run() int {
	f := parseFlags()

	level, ok := app.ParseLogLevel(f.logLevel)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", f.logLevel)
		return 2
	}
	if f.logPath != "" {
		logger, closer, err := app.OpenLogFile(f.logPath, level)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer closer.Close()
		f.opts.Logger = logger
	}

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool

	flag.StringVar(&f.opts.ConfigPath, "config", defaultConfigPath(), "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.opts.ConfigPath, "c", defaultConfigPath(), "Path to configuration file (shorthand)")
	flag.BoolVar(&f.opts.WatchConfig, "watch", true, "Reload the configuration file when it changes")
	flag.StringVar(&f.opts.InitScript, "init", defaultInitScript(), "Lua script to run at startup")
	flag.BoolVar(&f.opts.Disabled, "off", false, "Start with cursor tracking disabled")
	flag.StringVar(&f.logPath, "log", "", "Write logs to this file")
	flag.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "peekmark - show markup delimiters only where the cursor is\n\n")
		fmt.Fprintf(os.Stderr, "Usage: peekmark [options] [file.md]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-R  reveal element at cursor    Ctrl-T   toggle tracking\n")
		fmt.Fprintf(os.Stderr, "  Esc     conceal the revealed one    Ctrl-Z/Y undo/redo\n")
		fmt.Fprintf(os.Stderr, "  Ctrl-S  save                        Ctrl-Q   quit\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("peekmark %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}
	f.opts.File = flag.Arg(0)
	f.opts.InitScript = existing(f.opts.InitScript)
	return f
}

// configDir returns peekmark's directory under the user config directory.
func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "peekmark")
}

// defaultConfigPath returns the first settings file found in configDir.
func defaultConfigPath() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		if path := existing(filepath.Join(dir, name)); path != "" {
			return path
		}
	}
	return ""
}

func defaultInitScript() string {
	if dir := configDir(); dir != "" {
		return filepath.Join(dir, "init.lua")
	}
	return ""
}

// existing returns path if a file exists there, otherwise "".
func existing(path string) string {
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
