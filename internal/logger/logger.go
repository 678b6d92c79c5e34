package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop().Sugar()

// Init initializes the logger with the specified verbose level. An empty
// path logs JSON to stderr.
func Init(verbose bool, path string) error {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{"stderr"}
	if path != "" {
		cfg.OutputPaths = []string{path}
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	SetLogger(l)
	return nil
}

// SetLogger replaces the package logger and the zap globals
func SetLogger(l *zap.Logger) {
	logger = l.Sugar()
	zap.ReplaceGlobals(l)
}

// Close flushes buffered log entries
func Close() {
	_ = logger.Sync()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	logger.Debugw(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	logger.Infow(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	logger.Warnw(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	logger.Errorw(msg, args...)
}
