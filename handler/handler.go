package handler

import (
	"github.com/philipp01105/easylog/core"
)

// Handler defines the interface for single-record handlers
type Handler interface {
	// Handle processes a log record
	Handle(record core.Record) error

	// Close closes the handler and releases resources
	Close() error
}

// BatchHandler is implemented by handlers that write a whole unit of
// work at once
type BatchHandler interface {
	// HandleBatch processes the ordered records of one unit of work
	HandleBatch(records []core.Record) error

	// Close closes the handler and releases resources
	Close() error
}

// filterLevel returns the records at or above min, keeping their order.
// The input is returned as is when nothing is filtered out.
func filterLevel(records []core.Record, min core.Level) []core.Record {
	for i, r := range records {
		if r.Level >= min {
			continue
		}
		out := make([]core.Record, i, len(records))
		copy(out, records[:i])
		for _, r := range records[i+1:] {
			if r.Level >= min {
				out = append(out, r)
			}
		}
		return out
	}
	return records
}

// maxLevel returns the highest level in records
func maxLevel(records []core.Record) core.Level {
	level := core.DebugLevel
	for _, r := range records {
		if r.Level > level {
			level = r.Level
		}
	}
	return level
}
