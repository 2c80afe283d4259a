package log

import (
	"sync"

	logslog "github.com/paularlott/logger/slog"
)

// Package-level facade so callers never hold a logger instance; the
// classification and allocation core takes no logger at all.

var (
	mu  sync.RWMutex
	lgr = logslog.New(logslog.Config{})
)

// Configure sets the global log level and output format.
// Level is one of trace, debug, info, warn, error; format is console or json.
func Configure(level, format string) {
	mu.Lock()
	defer mu.Unlock()

	lgr = logslog.New(logslog.Config{Level: level, Format: format})
}

func Trace(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	lgr.Trace(msg, args...)
}

func Debug(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	lgr.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	lgr.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	lgr.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	lgr.Error(msg, args...)
}
