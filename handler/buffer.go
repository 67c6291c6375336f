package handler

import (
	"sync"

	"go.uber.org/zap"

	"github.com/philipp01105/easylog/core"
)

// BufferHandler collects the records of one unit of work and hands them
// to a BatchHandler on Flush. It turns a record-at-a-time producer into
// the batches the EasyLog formatter needs.
type BufferHandler struct {
	handler  BatchHandler
	level    core.Level
	limit    int
	overflow OverflowPolicy
	stats    *Stats
	logger   *zap.Logger

	mu      sync.Mutex
	records []core.Record
}

// BufferConfig holds configuration for buffer handler
type BufferConfig struct {
	// Handler receives the flushed batches
	Handler BatchHandler
	// Level is the minimum level buffered (default: DebugLevel)
	Level core.Level
	// Limit is the maximum number of buffered records (0 = unlimited)
	Limit int
	// Overflow decides what happens when Limit is reached (default: Flush)
	Overflow OverflowPolicy
	// Logger receives flush failures of the overflow path (default: no-op)
	Logger *zap.Logger
}

// NewBufferHandler creates a new buffer handler
func NewBufferHandler(cfg BufferConfig) *BufferHandler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Limit < 0 {
		cfg.Limit = 0
	}
	return &BufferHandler{
		handler:  cfg.Handler,
		level:    cfg.Level,
		limit:    cfg.Limit,
		overflow: cfg.Overflow,
		stats:    NewStats(),
		logger:   cfg.Logger,
	}
}

// Handle buffers a record. Records below the handler level are ignored.
func (h *BufferHandler) Handle(record core.Record) error {
	if record.Level < h.level {
		return nil
	}

	h.mu.Lock()
	var early []core.Record
	if h.limit > 0 && len(h.records) >= h.limit {
		switch h.overflow {
		case DropNewest:
			h.mu.Unlock()
			h.stats.IncrementDropped(record.Level)
			return nil
		case DropOldest:
			h.stats.IncrementDropped(h.records[0].Level)
			h.records = append(h.records[:0], h.records[1:]...)
		default:
			early = h.take()
		}
	}
	h.records = append(h.records, record)
	h.mu.Unlock()

	if early != nil {
		if err := h.handler.HandleBatch(early); err != nil {
			h.logger.Error("flushing full buffer failed", zap.Int("records", len(early)), zap.Error(err))
			return err
		}
		h.stats.IncrementProcessed(len(early))
	}
	return nil
}

// HandleBatch buffers every record of the batch
func (h *BufferHandler) HandleBatch(records []core.Record) error {
	var lastErr error
	for _, r := range records {
		if err := h.Handle(r); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Flush hands the buffered records to the wrapped handler as one batch.
// Nothing happens when the buffer is empty.
func (h *BufferHandler) Flush() error {
	h.mu.Lock()
	batch := h.take()
	h.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}
	if err := h.handler.HandleBatch(batch); err != nil {
		return err
	}
	h.stats.IncrementProcessed(len(batch))
	return nil
}

// Reset discards the buffered records
func (h *BufferHandler) Reset() {
	h.mu.Lock()
	h.records = nil
	h.mu.Unlock()
}

// Len returns the number of buffered records
func (h *BufferHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.records)
}

func (h *BufferHandler) take() []core.Record {
	batch := h.records
	h.records = nil
	return batch
}

// Stats returns a snapshot of the current statistics
func (h *BufferHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close flushes the buffer and closes the wrapped handler
func (h *BufferHandler) Close() error {
	flushErr := h.Flush()
	if err := h.handler.Close(); err != nil {
		return err
	}
	return flushErr
}
