package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/philipp01105/easylog/config"
	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/handler"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

func init() {
	// Initialize default logger with a buffered stderr handler
	h := handler.NewBufferHandler(handler.BufferConfig{
		Handler: handler.NewWriterHandler(handler.WriterConfig{Writer: os.Stderr}),
		Limit:   1000,
	})

	defaultLogger = NewBuilder().
		WithHandler(h).
		WithLevel(core.InfoLevel).
		Build()
}

// FromConfig builds a logger writing to cfg.LogPath ("-" is stdout)
// through a buffer. zl receives the handlers' own failures and may be nil.
func FromConfig(cfg *config.Config, zl *zap.Logger) (*Logger, error) {
	if zl == nil {
		zl = zap.NewNop()
	}
	level := cfg.MinLevel()

	var out handler.BatchHandler
	if cfg.LogPath == "-" {
		out = handler.NewWriterHandler(handler.WriterConfig{
			Writer:    os.Stdout,
			Formatter: cfg.BatchFormatter(),
			Level:     level,
			Logger:    zl,
		})
	} else {
		fh, err := handler.NewFileHandler(handler.FileConfig{
			Filename:   cfg.LogPath,
			Formatter:  cfg.BatchFormatter(),
			Level:      level,
			MaxSize:    cfg.MaxSizeBytes(),
			MaxBackups: cfg.Rotation.MaxBackups,
			Compress:   cfg.Rotation.Compress,
			Logger:     zl,
		})
		if err != nil {
			return nil, fmt.Errorf("create file handler: %w", err)
		}
		out = fh
	}

	buffer := handler.NewBufferHandler(handler.BufferConfig{
		Handler:  out,
		Level:    level,
		Limit:    cfg.Buffer.Limit,
		Overflow: cfg.OverflowPolicy(),
		Logger:   zl,
	})

	return NewBuilder().
		WithHandler(buffer).
		WithLevel(level).
		WithErrorLogger(zl).
		Build(), nil
}

// Default returns the default logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...core.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...core.Field) {
	Default().Info(msg, fields...)
}

// Notice logs a notice message using the default logger
func Notice(msg string, fields ...core.Field) {
	Default().Notice(msg, fields...)
}

// Warning logs a warning message using the default logger
func Warning(msg string, fields ...core.Field) {
	Default().Warning(msg, fields...)
}

// Error logs an error message using the default logger
func Error(msg string, fields ...core.Field) {
	Default().Error(msg, fields...)
}

// Critical logs a critical message using the default logger
func Critical(msg string, fields ...core.Field) {
	Default().Critical(msg, fields...)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	Default().Debugf(format, args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().Infof(format, args...)
}

// Warningf logs a formatted warning message using the default logger
func Warningf(format string, args ...interface{}) {
	Default().Warningf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().Errorf(format, args...)
}

// With creates a new logger with additional fields
func With(fields ...core.Field) *Logger {
	return Default().With(fields...)
}

// Channel creates a new logger for another channel
func Channel(name string) *Logger {
	return Default().Channel(name)
}

// Flush writes the records buffered by the default logger as one batch
func Flush() error {
	return Default().Flush()
}
