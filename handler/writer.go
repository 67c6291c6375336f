package handler

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/formatter"
)

// WriterHandler writes formatted batches to an io.Writer
type WriterHandler struct {
	writer          io.Writer
	formatter       formatter.BatchFormatter
	writerFormatter formatter.WriterFormatter
	level           core.Level
	mu              sync.Mutex
	stats           *Stats
	dispatcher      *dispatcher
}

// WriterConfig holds configuration for writer handler
type WriterConfig struct {
	AsyncConfig
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: EasyLogFormatter with the default configuration)
	Formatter formatter.BatchFormatter
	// Level is the minimum level written (default: DebugLevel)
	Level core.Level
	// Logger receives write failures of the async queue (default: no-op)
	Logger *zap.Logger
}

// NewWriterHandler creates a new writer handler
func NewWriterHandler(cfg WriterConfig) *WriterHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewEasyLogFormatter(formatter.DefaultConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	h := &WriterHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
		level:     cfg.Level,
		stats:     NewStats(),
	}

	// Cache WriterFormatter for the direct path
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)
	h.dispatcher = newDispatcher(cfg.AsyncConfig, h.write, h.stats, cfg.Logger)

	return h
}

// Handle writes a single record when the formatter supports it and
// panics with ErrWrongConfiguration otherwise
func (h *WriterHandler) Handle(record core.Record) error {
	single, ok := h.formatter.(formatter.Formatter)
	if !ok {
		panic(formatter.ErrWrongConfiguration)
	}
	if record.Level < h.level {
		return nil
	}
	data, err := single.Format(record)
	if err != nil {
		return err
	}

	h.mu.Lock()
	_, err = h.writer.Write(data)
	h.mu.Unlock()
	if err == nil {
		h.stats.IncrementProcessed(1)
	}
	return err
}

// HandleBatch drops the records below the handler level and writes the
// remaining ones as one batch
func (h *WriterHandler) HandleBatch(records []core.Record) error {
	records = filterLevel(records, h.level)
	if len(records) == 0 {
		return nil
	}
	if h.dispatcher.async {
		records = append([]core.Record(nil), records...)
	}
	return h.dispatcher.dispatch(records)
}

// write formats and writes a batch
func (h *WriterHandler) write(records []core.Record) error {
	if h.writerFormatter != nil {
		h.mu.Lock()
		n, err := h.writerFormatter.FormatBatchTo(records, h.writer)
		h.mu.Unlock()
		if err == nil && n > 0 {
			h.stats.IncrementProcessed(len(records))
		}
		return err
	}

	out := h.formatter.FormatBatch(records)
	if out == "" {
		return nil
	}

	h.mu.Lock()
	_, err := io.WriteString(h.writer, out)
	h.mu.Unlock()

	if err == nil {
		h.stats.IncrementProcessed(len(records))
	}
	return err
}

// Stats returns a snapshot of the current statistics
func (h *WriterHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the queue. The writer is left open.
func (h *WriterHandler) Close() error {
	h.dispatcher.close()
	return nil
}
