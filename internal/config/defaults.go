package config

const (
	defaultDataDir   = "~/.local/share/sentinel"
	defaultMediaDir  = "~/.local/share/sentinel/media"
	defaultLogDir    = "~/.local/share/sentinel/logs"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"

	defaultMaxEvents = 200

	defaultClipSeconds            = 15
	defaultThumbnailOffsetSeconds = 1
	defaultCaptureTimeout         = 60
	defaultSnapshotTimeout        = 30

	defaultEventPort      = 1883
	defaultConnectTimeout = 10
	defaultConnectRetry   = 30
	defaultCloseRetry     = 10

	defaultSimInitialDelaySeconds = 5
	defaultSimMinIntervalSeconds  = 60
	defaultSimMaxIntervalSeconds  = 180

	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
		},
		Catalog: Catalog{
			MaxEvents: defaultMaxEvents,
		},
		Recording: Recording{
			ClipSeconds:            defaultClipSeconds,
			ThumbnailOffsetSeconds: defaultThumbnailOffsetSeconds,
			CaptureTimeout:         defaultCaptureTimeout,
		},
		Snapshot: Snapshot{
			Timeout: defaultSnapshotTimeout,
		},
		Supervisor: Supervisor{
			EventPort:      defaultEventPort,
			ConnectTimeout: defaultConnectTimeout,
			ConnectRetry:   defaultConnectRetry,
			CloseRetry:     defaultCloseRetry,
		},
		Simulation: Simulation{
			InitialDelaySecs:   defaultSimInitialDelaySeconds,
			MinIntervalSeconds: defaultSimMinIntervalSeconds,
			MaxIntervalSeconds: defaultSimMaxIntervalSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
