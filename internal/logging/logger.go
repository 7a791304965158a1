package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"diskstate/internal/config"
)

// logFileName is the file written under the configured log directory.
const logFileName = "diskstate.log"

// Options describes how a logger is built.
type Options struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Format is console or json. Empty means console.
	Format string
	// Writer receives every line. Nil means stderr, which keeps stdout free
	// for command output.
	Writer io.Writer
	// File, when set, is opened for append and receives a copy of every line.
	File string
	// Source adds the caller's file and line at every level, not only debug.
	Source bool
}

// New builds a logger from opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	build, err := handlerFor(opts.Format)
	if err != nil {
		return nil, err
	}

	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.File != "" {
		file, err := openLogFile(opts.File)
		if err != nil {
			return nil, err
		}
		w = io.MultiWriter(w, file)
	}
	return slog.New(build(w, level, opts.Source || level <= slog.LevelDebug)), nil
}

// NewFromConfig builds the logger described by the [logging] section, with
// a copy in paths.log_dir when one is configured.
func NewFromConfig(cfg *config.Config) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{})
	}
	opts := Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}
	if cfg.Paths.LogDir != "" {
		opts.File = filepath.Join(cfg.Paths.LogDir, logFileName)
	}
	return New(opts)
}

type handlerBuilder func(w io.Writer, level slog.Leveler, addSource bool) slog.Handler

func handlerFor(format string) (handlerBuilder, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "console":
		return func(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
			return newConsoleHandler(w, level, addSource)
		}, nil
	case "json":
		return newJSONHandler, nil
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", format)
	}
}

func parseLevel(value string) (slog.Level, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}
