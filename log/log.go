// Package log provides the process-wide structured logger.
//
// Call sites use the alternating key/value convention:
//
//	log.Info("validator activated", "validator", addr, "epoch", epoch)
//
// The backend is a zap SugaredLogger; tests and libraries can swap it via
// SetLogger.
package log

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var root atomic.Pointer[zap.SugaredLogger]

func init() {
	root.Store(newRoot(zapcore.InfoLevel).Sugar())
}

func newRoot(lvl zapcore.Level) *zap.Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.LevelKey = "lvl"
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(cfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	return zap.New(core)
}

// SetLogger replaces the process-wide logger.
func SetLogger(l *zap.Logger) { root.Store(l.Sugar()) }

// SetLevel rebuilds the root logger at the given level.
func SetLevel(lvl zapcore.Level) { root.Store(newRoot(lvl).Sugar()) }

// Trace logs at debug level; kept as a distinct name to preserve the
// hot-path call sites' intent.
func Trace(msg string, ctx ...any) { root.Load().Debugw(msg, ctx...) }

// Debug logs a message at debug level with key/value context.
func Debug(msg string, ctx ...any) { root.Load().Debugw(msg, ctx...) }

// Info logs a message at info level with key/value context.
func Info(msg string, ctx ...any) { root.Load().Infow(msg, ctx...) }

// Warn logs a message at warn level with key/value context.
func Warn(msg string, ctx ...any) { root.Load().Warnw(msg, ctx...) }

// Error logs a message at error level with key/value context.
func Error(msg string, ctx ...any) { root.Load().Errorw(msg, ctx...) }
