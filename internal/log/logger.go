// Package log wraps slog with per-component context so every record names
// the subsystem that emitted it.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Logger carries a component name attached to every record.
type Logger struct {
	*slog.Logger
	component string
}

// New builds a text logger on stdout at the given level and installs it as
// the process default.
func New(component string, level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With("component", component)
	slog.SetDefault(logger)
	return &Logger{Logger: logger, component: component}
}

// NewFromEnv reads LOG_LEVEL (debug|info|warn|error, default info).
func NewFromEnv(component string) *Logger {
	return New(component, ParseLevel(os.Getenv("LOG_LEVEL")))
}

// WithComponent returns a child logger for a subsystem.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With("component", component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
