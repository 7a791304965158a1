// Package config loads, normalizes, and validates diskstate configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DISKSTATE_QUEUE_DIR and
// DISKSTATE_TEMP_DIR environment overrides. Always obtain settings through
// this package so the store receives sanitized paths and explicit options.
package config
