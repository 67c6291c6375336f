package handler

import (
	"github.com/philipp01105/easylog/core"
)

// MultiHandler sends batches to multiple handlers
type MultiHandler struct {
	handlers []BatchHandler
}

// NewMultiHandler creates a new multi-handler
func NewMultiHandler(handlers ...BatchHandler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

// HandleBatch sends the batch to all handlers. Every handler gets its
// own copy so a handler that queues the batch is not affected by another.
// The last error is returned.
func (h *MultiHandler) HandleBatch(records []core.Record) error {
	var lastErr error
	for _, handler := range h.handlers {
		batch := make([]core.Record, len(records))
		copy(batch, records)
		if err := handler.HandleBatch(batch); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Close closes all handlers
func (h *MultiHandler) Close() error {
	var lastErr error
	for _, handler := range h.handlers {
		if err := handler.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
