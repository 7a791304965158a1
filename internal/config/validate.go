package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.QueueDir == "" {
		return fmt.Errorf("paths.queue_dir must be set (or %s)", EnvQueueDir)
	}
	if c.Paths.TempDir != "" && filepath.Clean(c.Paths.TempDir) == filepath.Clean(c.Paths.QueueDir) {
		return errors.New("paths.temp_dir must differ from paths.queue_dir")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
