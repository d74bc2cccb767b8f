package config

const (
	defaultServerBind            = "127.0.0.1:8080"
	defaultServerReadTimeout     = 15
	defaultServerWriteTimeout    = 30
	defaultServerShutdownTimeout = 5
	defaultLiveHost              = "localhost"
	defaultLivePort              = 9877
	defaultLiveDialTimeout       = 5
	defaultLiveIOTimeout         = 10
	defaultLogDir                = "~/.local/share/livebridge/logs"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind:            defaultServerBind,
			ReadTimeout:     defaultServerReadTimeout,
			WriteTimeout:    defaultServerWriteTimeout,
			ShutdownTimeout: defaultServerShutdownTimeout,
		},
		Live: Live{
			Host:        defaultLiveHost,
			Port:        defaultLivePort,
			DialTimeout: defaultLiveDialTimeout,
			IOTimeout:   defaultLiveIOTimeout,
		},
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
