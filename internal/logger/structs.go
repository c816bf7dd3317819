package logger

// Console writes info and debug to stdout and everything else to stderr.
type Console struct {
	Enabled bool `toml:"enabled"`
	// UseConsoleWriter renders human readable lines instead of JSON.
	UseConsoleWriter bool
}

// Rotation configures one lumberjack file. Sizes are megabytes, ages days.
type Rotation struct {
	Name       string `toml:"name"`
	MaxSize    int    `toml:"maxSize"`
	MaxBackups int    `toml:"maxBackups"`
	MaxAge     int    `toml:"maxAge"`
}

// LogFile splits log output into one rolling file per level group plus the http access log.
type LogFile struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	Access Rotation `toml:"access"`
	Error  Rotation `toml:"error"`
	Warn   Rotation `toml:"warn"`
	Info   Rotation `toml:"info"`
	Trace  Rotation `toml:"trace"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error; empty means debug
	LogEnv   string

	// EnableAccessLogToConsole writes the http access log to the console as well.
	// Console.Enabled must be set too.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	Console Console
	File    LogFile `toml:"file"`
}

const (
	defaultMaxSize    = 100
	defaultMaxBackups = 3
	defaultMaxAge     = 7
)

// WithDefaults returns r with a file name and limits filled in where unset.
func (r Rotation) WithDefaults(name string) Rotation {
	if r.Name == "" {
		r.Name = name
	}

	if r.MaxSize <= 0 {
		r.MaxSize = defaultMaxSize
	}

	if r.MaxBackups <= 0 {
		r.MaxBackups = defaultMaxBackups
	}

	if r.MaxAge <= 0 {
		r.MaxAge = defaultMaxAge
	}

	return r
}
