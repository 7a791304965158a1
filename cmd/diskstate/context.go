package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"diskstate/internal/config"
	"diskstate/internal/diskstate"
	"diskstate/internal/logging"
)

// dotEnvFile is read from the working directory before configuration is
// resolved, so DISKSTATE_* overrides can live next to a checkout.
const dotEnvFile = ".env"

type commandContext struct {
	configFlag *string
	jsonFlag   *bool
	yamlFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag, yamlFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
		yamlFlag:   yamlFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		if err := loadDotEnv(); err != nil {
			c.configErr = err
			return
		}
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// loadDotEnv applies .env without overriding variables already set.
func loadDotEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	return nil
}

func (c *commandContext) openStore() (*diskstate.Store, *slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	store, err := diskstate.New(diskstate.Options{
		QueueDir:        cfg.Paths.QueueDir,
		TempDir:         cfg.Paths.TempDir,
		ReloadPostQueue: cfg.Queue.ReloadPostQueue,
		ReloadURLQueue:  cfg.Queue.ReloadURLQueue,
		ContinuePartial: cfg.Queue.ContinuePartial,
		DirectWrite:     cfg.Queue.DirectWrite,
		UnpackDefault:   cfg.Queue.Unpack,
		Logger:          logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, logger, nil
}

// withStore runs fn while holding the queue directory lock.
func (c *commandContext) withStore(fn func(*diskstate.Store) error) error {
	store, logger, err := c.openStore()
	if err != nil {
		return err
	}
	lock, err := diskstate.AcquireLock(store.QueueDir())
	if err != nil {
		if errors.Is(err, diskstate.ErrLocked) {
			return fmt.Errorf("%w; stop the running daemon first", err)
		}
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logging.WarnWithContext(logger, "queue lock release failed", "lock_release_failed",
				logging.String("path", lock.Path()),
				logging.Error(err),
			)
		}
	}()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
