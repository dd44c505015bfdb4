// Package logging owns the process-wide logr logger used by mtatools.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// Supported log levels, matching the levels of the configuration file.
const (
	LevelError = "error"
	LevelWarn  = "warn"
	LevelInfo  = "info"
	LevelDebug = "debug"
	LevelTrace = "trace"
)

var (
	mu     sync.RWMutex
	logger logr.Logger
)

// Init initializes the global logger writing to stderr at the given level.
func Init(level string) {
	InitWithWriter(os.Stderr, level)
}

// InitWithWriter initializes the global logger writing to w.
func InitWithWriter(w io.Writer, level string) {
	opts := &slog.HandlerOptions{
		Level: slogLevel(level),
	}

	handler := slog.NewTextHandler(w, opts)

	mu.Lock()
	logger = logr.FromSlogHandler(handler)
	mu.Unlock()
}

// Get returns the global logger, initializing it with the default level if needed.
func Get() logr.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()

	if l.GetSink() == nil {
		Init(LevelError)
		return Get()
	}
	return l
}

// Named returns the global logger with the given name appended.
func Named(name string) logr.Logger {
	return Get().WithName(name)
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() logr.Logger {
	return logr.Discard()
}

// ValidLevel reports whether level is one of the supported log levels.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace:
		return true
	default:
		return false
	}
}

// slogLevel maps a configured level to a slog level.
// logr V(n) logs at slog level -n, so debug already opens every V level logr uses here.
func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case LevelTrace:
		return slog.LevelDebug - 1
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
