package logger_test

import (
	"errors"
	"io"
	"os"

	"github.com/philipp01105/easylog/formatter"
	"github.com/philipp01105/easylog/handler"
	"github.com/philipp01105/easylog/logger"
)

// Use the package-level default logger for quick, no-setup logging.
// Records are written to stderr as one batch on Flush.
func Example() {
	logger.Info("Application started")
	logger.Info("User login",
		logger.String("username", "alice"),
		logger.Int("user_id", 123),
	)
	_ = logger.Flush()
}

// Create a custom Logger with the Builder pattern.
func ExampleNewBuilder() {
	out := handler.NewWriterHandler(handler.WriterConfig{
		Writer:    io.Discard,
		Formatter: formatter.NewEasyLogFormatter(formatter.DefaultConfig()),
	})
	buffer := handler.NewBufferHandler(handler.BufferConfig{Handler: out})

	log := logger.NewBuilder().
		WithHandler(buffer).
		WithChannel("app").
		WithLevel(logger.DebugLevel).
		WithCaller(true).
		WithProcessor(logger.NewUIDProcessor(7)).
		WithFields(logger.String("service", "api")).
		Build()

	log.Info("ready", logger.Int("port", 8080))
	log.Close()
}

// Each unit of work is rendered as one block on Flush.
func ExampleLogger_Flush() {
	out := handler.NewWriterHandler(handler.WriterConfig{
		Writer: os.Stdout,
		Formatter: formatter.NewEasyLogFormatter(formatter.Config{
			MaxLineLength: 40,
			PrefixLength:  2,
			LineEnding:    "\n",
		}),
	})
	log := logger.NewBuilder().
		WithHandler(handler.NewBufferHandler(handler.BufferConfig{Handler: out})).
		WithChannel("security").
		Build()

	log.With(logger.Err(errors.New("bad credentials"))).Warning("Login failed")
	log.Close()
}

// Use With and Channel to derive loggers sharing the same buffer.
func ExampleLogger_With() {
	out := handler.NewWriterHandler(handler.WriterConfig{Writer: io.Discard})
	log := logger.NewBuilder().
		WithHandler(handler.NewBufferHandler(handler.BufferConfig{Handler: out})).
		Build()

	reqLog := log.With(
		logger.String("request_id", "req-12345"),
		logger.String("method", "GET"),
	)

	reqLog.Info("Processing request", logger.String("path", "/api/users"))
	reqLog.Channel("doctrine").Debug("SELECT * FROM users WHERE id = ?", logger.Any("params", []int{7}))
	reqLog.Info("Request completed", logger.Int("status", 200))
	log.Close()
}
