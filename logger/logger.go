package logger

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/handler"
)

// Logger is the main logging interface (immutable)
type Logger struct {
	handler       handler.Handler
	channel       string
	level         core.Level
	fields        core.Map
	processors    []Processor
	includeCaller bool
	callerSkip    int
	errorLogger   *zap.Logger
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	handler       handler.Handler
	channel       string
	level         core.Level
	fields        core.Map
	processors    []Processor
	includeCaller bool
	callerSkip    int
	errorLogger   *zap.Logger
}

// DefaultChannel is the channel of loggers built without WithChannel
const DefaultChannel = "app"

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{
		channel:    DefaultChannel,
		level:      core.InfoLevel, // Default level
		callerSkip: 2,              // Skip log and the level method
	}
}

// WithHandler sets the handler. Batch-only outputs must be wrapped in a
// handler.BufferHandler.
func (b *Builder) WithHandler(h handler.Handler) *Builder {
	b.handler = h
	return b
}

// WithChannel sets the channel the records are tagged with
func (b *Builder) WithChannel(channel string) *Builder {
	b.channel = channel
	return b
}

// WithLevel sets the log level
func (b *Builder) WithLevel(level core.Level) *Builder {
	b.level = level
	return b
}

// WithFields adds default context fields to all records
func (b *Builder) WithFields(fields ...core.Field) *Builder {
	b.fields = append(b.fields, fields...)
	return b
}

// WithProcessor appends a processor. Processors run in order on every
// record that passes the level check.
func (b *Builder) WithProcessor(p Processor) *Builder {
	b.processors = append(b.processors, p)
	return b
}

// WithCaller enables caller information in the record's extra
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// WithErrorLogger sets where handler failures are reported (default: dropped)
func (b *Builder) WithErrorLogger(zl *zap.Logger) *Builder {
	b.errorLogger = zl
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	errorLogger := b.errorLogger
	if errorLogger == nil {
		errorLogger = zap.NewNop()
	}
	return &Logger{
		handler:       b.handler,
		channel:       b.channel,
		level:         b.level,
		fields:        b.fields.Clone(),
		processors:    append([]Processor(nil), b.processors...),
		includeCaller: b.includeCaller,
		callerSkip:    b.callerSkip,
		errorLogger:   errorLogger,
	}
}

// With creates a new Logger with additional fields (immutable operation)
func (l *Logger) With(fields ...core.Field) *Logger {
	newFields := make(core.Map, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	clone := *l
	clone.fields = newFields
	return &clone
}

// Channel returns a Logger writing to the same handler under another channel
func (l *Logger) Channel(name string) *Logger {
	clone := *l
	clone.channel = name
	return &clone
}

// Level returns the minimum level of the logger
func (l *Logger) Level() core.Level {
	return l.level
}

// Enabled reports whether records at level are handled
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.level && l.handler != nil
}

// Log logs a message at the specified level
func (l *Logger) Log(level core.Level, msg string, fields ...core.Field) {
	// Level check optimization - exit early BEFORE any allocations
	if level < l.level {
		return
	}
	l.log(level, msg, fields)
}

// log builds the record and hands it to the handler
func (l *Logger) log(level core.Level, msg string, fields []core.Field) {
	// Handler check - exit if no handler (avoid any work)
	if l.handler == nil {
		return
	}

	record := core.Record{
		Time:    time.Now(),
		Channel: l.channel,
		Level:   level,
		Message: msg,
	}

	if n := len(l.fields) + len(fields); n > 0 {
		record.Context = make(core.Map, 0, n)
		record.Context = append(record.Context, l.fields...)
		record.Context = append(record.Context, fields...)
	}

	if l.includeCaller {
		if caller := core.GetCaller(l.callerSkip); caller.Defined {
			record.Extra = append(record.Extra,
				core.F("file", caller.File),
				core.F("line", caller.Line),
				core.F("function", caller.Function),
			)
		}
	}

	for _, p := range l.processors {
		record = p.Process(record)
	}

	if err := l.handler.Handle(record); err != nil {
		l.errorLogger.Error("handling log record failed",
			zap.String("channel", record.Channel),
			zap.Stringer("level", record.Level),
			zap.Error(err),
		)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...core.Field) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(core.DebugLevel, msg, fields)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields ...core.Field) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(core.InfoLevel, msg, fields)
}

// Notice logs a normal but significant event
func (l *Logger) Notice(msg string, fields ...core.Field) {
	if core.NoticeLevel < l.level {
		return
	}
	l.log(core.NoticeLevel, msg, fields)
}

// Warning logs a warning message
func (l *Logger) Warning(msg string, fields ...core.Field) {
	if core.WarningLevel < l.level {
		return
	}
	l.log(core.WarningLevel, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields ...core.Field) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(core.ErrorLevel, msg, fields)
}

// Critical logs a critical condition
func (l *Logger) Critical(msg string, fields ...core.Field) {
	if core.CriticalLevel < l.level {
		return
	}
	l.log(core.CriticalLevel, msg, fields)
}

// Alert logs a condition that must be acted on immediately
func (l *Logger) Alert(msg string, fields ...core.Field) {
	if core.AlertLevel < l.level {
		return
	}
	l.log(core.AlertLevel, msg, fields)
}

// Emergency logs that the system is unusable
func (l *Logger) Emergency(msg string, fields ...core.Field) {
	if core.EmergencyLevel < l.level {
		return
	}
	l.log(core.EmergencyLevel, msg, fields)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) {
	if core.DebugLevel < l.level {
		return
	}
	l.log(core.DebugLevel, fmt.Sprintf(format, args...), nil)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) {
	if core.InfoLevel < l.level {
		return
	}
	l.log(core.InfoLevel, fmt.Sprintf(format, args...), nil)
}

// Noticef logs a notice message with formatting
func (l *Logger) Noticef(format string, args ...interface{}) {
	if core.NoticeLevel < l.level {
		return
	}
	l.log(core.NoticeLevel, fmt.Sprintf(format, args...), nil)
}

// Warningf logs a warning message with formatting
func (l *Logger) Warningf(format string, args ...interface{}) {
	if core.WarningLevel < l.level {
		return
	}
	l.log(core.WarningLevel, fmt.Sprintf(format, args...), nil)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) {
	if core.ErrorLevel < l.level {
		return
	}
	l.log(core.ErrorLevel, fmt.Sprintf(format, args...), nil)
}

// Criticalf logs a critical message with formatting
func (l *Logger) Criticalf(format string, args ...interface{}) {
	if core.CriticalLevel < l.level {
		return
	}
	l.log(core.CriticalLevel, fmt.Sprintf(format, args...), nil)
}

// Alertf logs an alert message with formatting
func (l *Logger) Alertf(format string, args ...interface{}) {
	if core.AlertLevel < l.level {
		return
	}
	l.log(core.AlertLevel, fmt.Sprintf(format, args...), nil)
}

// Emergencyf logs an emergency message with formatting
func (l *Logger) Emergencyf(format string, args ...interface{}) {
	if core.EmergencyLevel < l.level {
		return
	}
	l.log(core.EmergencyLevel, fmt.Sprintf(format, args...), nil)
}

// Flush ends the current unit of work: buffered records are written as
// one batch. It is a no-op for handlers that do not buffer.
func (l *Logger) Flush() error {
	if f, ok := l.handler.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the logger's handler
func (l *Logger) Close() error {
	if l.handler != nil {
		return l.handler.Close()
	}
	return nil
}
