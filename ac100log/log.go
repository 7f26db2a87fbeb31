// Package ac100log is the toolchain's logging surface: gated stderr
// writes at four severities, matching both binaries' -l/--loglevel flag.
// Grounded on the teacher's own main.go, which has no structured-logging
// dependency and logs via fmt.Fprintf(os.Stderr, ...) behind a verbosity
// flag; nothing else in the retrieved corpus offers an ecosystem
// alternative for this domain, so this stays on the standard library.
package ac100log

import (
	"fmt"
	"io"
	"os"
)

// Level is a logging severity, ordered from least to most severe.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
)

// ParseLevel parses one of "debug", "info", "warning", "error" (the CLI's
// -l flag values). It defaults to Info on an unrecognized string.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return Debug
	case "warning":
		return Warning
	case "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Logger writes level-gated messages to an io.Writer (stderr by default).
type Logger struct {
	Out       io.Writer
	Threshold Level
}

// New returns a Logger writing to os.Stderr at the given threshold.
func New(threshold Level) *Logger {
	return &Logger{Out: os.Stderr, Threshold: threshold}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.Threshold {
		return
	}
	fmt.Fprintf(l.Out, "%s: %s\n", level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug severity.
func (l *Logger) Debugf(format string, args ...any) { l.log(Debug, format, args...) }

// Infof logs at info severity.
func (l *Logger) Infof(format string, args ...any) { l.log(Info, format, args...) }

// Warningf logs at warning severity.
func (l *Logger) Warningf(format string, args ...any) { l.log(Warning, format, args...) }

// Errorf logs at error severity.
func (l *Logger) Errorf(format string, args ...any) { l.log(Error, format, args...) }
