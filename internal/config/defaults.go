package config

const (
	defaultConfigPath = "~/.config/diskstate/config.toml"
	defaultQueueDir   = "~/.local/share/diskstate/queue"
	defaultTempDir    = "~/.local/share/diskstate/tmp"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	// EnvQueueDir overrides paths.queue_dir.
	EnvQueueDir = "DISKSTATE_QUEUE_DIR"
	// EnvTempDir overrides paths.temp_dir.
	EnvTempDir = "DISKSTATE_TEMP_DIR"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			QueueDir: defaultQueueDir,
			TempDir:  defaultTempDir,
		},
		Queue: Queue{
			ReloadPostQueue: true,
			ReloadURLQueue:  true,
			ContinuePartial: true,
			DirectWrite:     true,
			Unpack:          true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
