// Package logger provides structured logging for platform components.
// Each component gets a named logger; fields are key/value pairs appended
// to the message, slog style.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger with a component name.
type Logger struct {
	zl        zerolog.Logger
	component string
}

// New creates a logger for the named component at the given level.
// Unknown level strings fall back to "info".
func New(component, level string) *Logger {
	return NewWithWriter(component, level, os.Stderr)
}

// NewDefault creates an info-level logger for the named component.
func NewDefault(component string) *Logger {
	return New(component, "info")
}

// NewWithWriter creates a logger writing to w. Used by tests to capture output.
func NewWithWriter(component, level string, w io.Writer) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("component", component).
		Logger()
	return &Logger{zl: zl, component: component}
}

// Component returns the component name the logger was created with.
func (l *Logger) Component() string { return l.component }

// WithField returns a logger with an extra field attached to every entry.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{
		zl:        l.zl.With().Interface(key, value).Logger(),
		component: l.component,
	}
}

// WithError returns a logger with the error attached to every entry.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		zl:        l.zl.With().AnErr("error", err).Logger(),
		component: l.component,
	}
}

// Debug logs at debug level with alternating key/value args.
func (l *Logger) Debug(msg string, args ...any) {
	l.emit(l.zl.Debug(), msg, args)
}

// Info logs at info level with alternating key/value args.
func (l *Logger) Info(msg string, args ...any) {
	l.emit(l.zl.Info(), msg, args)
}

// Warn logs at warn level with alternating key/value args.
func (l *Logger) Warn(msg string, args ...any) {
	l.emit(l.zl.Warn(), msg, args)
}

// Error logs at error level with alternating key/value args.
func (l *Logger) Error(msg string, args ...any) {
	l.emit(l.zl.Error(), msg, args)
}

func (l *Logger) emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprintf("arg%d", i)
		}
		ev = ev.Interface(key, args[i+1])
	}
	if len(args)%2 != 0 {
		ev = ev.Interface("extra", args[len(args)-1])
	}
	ev.Msg(msg)
}
