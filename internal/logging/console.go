package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ideamans/go-l10n"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorGray   = "\033[90m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
)

// Console writes translated messages to stdout, warnings and errors to
// stderr. It is safe for concurrent use.
type Console struct {
	level     LogLevel
	component string
	color     bool
	out, err  io.Writer
	mu        *sync.Mutex
}

// NewConsole creates a console logger. Colour is enabled when stdout is a
// terminal.
func NewConsole(level LogLevel) *Console {
	fd := os.Stdout.Fd()
	return &Console{
		level: level,
		color: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		out:   os.Stdout,
		err:   os.Stderr,
		mu:    &sync.Mutex{},
	}
}

// NewWriter creates an uncoloured logger writing every level to w.
func NewWriter(level LogLevel, w io.Writer) *Console {
	return &Console{level: level, out: w, err: w, mu: &sync.Mutex{}}
}

// Debug logs a debug message.
func (l *Console) Debug(msg string, args ...interface{}) { l.log(LevelDebug, msg, args...) }

// Info logs an informational message.
func (l *Console) Info(msg string, args ...interface{}) { l.log(LevelInfo, msg, args...) }

// Warn logs a warning.
func (l *Console) Warn(msg string, args ...interface{}) { l.log(LevelWarn, msg, args...) }

// Error logs an error.
func (l *Console) Error(msg string, args ...interface{}) { l.log(LevelError, msg, args...) }

// WithComponent returns a logger sharing l's output with a component prefix.
func (l *Console) WithComponent(component string) Logger {
	c := *l
	c.component = component
	return &c
}

func (l *Console) log(level LogLevel, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	line := l10n.F(msg, args...)
	if l.component != "" {
		if l.color {
			line = fmt.Sprintf("%s[%s]%s %s", colorCyan, l.component, colorReset, line)
		} else {
			line = fmt.Sprintf("[%s] %s", l.component, line)
		}
	}
	if l.color {
		switch level {
		case LevelDebug:
			line = colorGray + line + colorReset
		case LevelWarn:
			line = colorYellow + line + colorReset
		case LevelError:
			line = colorRed + line + colorReset
		}
	}

	w := l.out
	if level >= LevelWarn {
		w = l.err
	}
	l.mu.Lock()
	fmt.Fprintln(w, line)
	l.mu.Unlock()
}
