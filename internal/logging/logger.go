// Package logging provides the leveled, translatable logger used by the
// analyzer and the command line tool.
package logging

// LogLevel is the severity of a log message.
type LogLevel int

const (
	// LevelDebug is for per-row progress inside the analyzer.
	LevelDebug LogLevel = iota
	// LevelInfo is for per-frame summaries.
	LevelInfo
	// LevelWarn is for recoverable problems.
	LevelWarn
	// LevelError is for problems that stop processing.
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	}
	return "unknown"
}

// ParseLogLevel parses a level name. Unknown names select LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	}
	return LevelInfo
}

// Logger logs message keys that may be translated before output.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that prefixes messages with component.
	WithComponent(component string) Logger
}
