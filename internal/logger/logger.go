// Package logger is the process-wide structured logger. Until Init is
// called every call is a no-op.
//
// Never pass private keys, mnemonics or passwords as fields.
package logger

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Init installs a JSON production logger at level ("debug", "info", "warn", "error").
func Init(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Set(l)
	return nil
}

// Set replaces the logger; nil restores the no-op logger.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the current logger for components that take a *zap.Logger.
func L() *zap.Logger {
	return current.Load()
}

// Sync flushes buffered entries.
func Sync() error {
	return L().Sync()
}

func Debug(msg string, keysAndValues ...any) {
	L().Sugar().Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	L().Sugar().Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	L().Sugar().Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	L().Sugar().Errorw(msg, keysAndValues...)
}
