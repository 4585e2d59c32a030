package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled reports false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active engine logger. Accessed atomically so SetLogger may race with logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.Default())
}

// SetLogger configures the logger used by the engine and all of its sub-packages.
// By default the engine logs through slog.Default(). Pass nil to silence all output.
//
// Log levels used by the engine:
//   - slog.LevelInfo: lifecycle events (material linked, compute device selected)
//   - slog.LevelWarn: soft failures (uniform not found, GL error codes, CPU fallback)
//   - slog.LevelError: link failures and failed compute API calls
//
// Parameters:
//   - l: the logger to install, or nil to discard all records
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger.
//
// Returns:
//   - *slog.Logger: the active logger, never nil
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
