package config

const (
	defaultLogDir            = "~/.local/share/shelf/logs"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	defaultWatchPollInterval = 300
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Watch: Watch{
			PollInterval: defaultWatchPollInterval,
		},
	}
}
