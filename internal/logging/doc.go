// Package logging assembles structured slog loggers and attribute helpers
// used across the diskstate tools.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and defines the standard field keys so every save, load and
// sweep pass emits lines of the same shape. A no-op logger is provided for
// tests and wiring code that cannot fail.
package logging
