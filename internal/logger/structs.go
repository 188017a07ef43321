package logger

// Console implements a console based logger.
type Console struct {
	Enabled bool
	// UseConsoleWriter prints human readable lines instead of JSON.
	UseConsoleWriter bool
}

// Rotation configures one rolling log file.
type Rotation struct {
	File       string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// LogFile implements a file based logger with one file per level group.
type LogFile struct {
	Enabled bool
	Path    string

	Access Rotation
	Error  Rotation
	Info   Rotation
	Trace  Rotation
	Warn   Rotation
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the access log to stdout as well.
	// Console.Enabled must be set too.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /health calls

	AppName     string
	ServiceName string

	// Console used mainly for containers and dev.
	Console Console

	File LogFile
}
