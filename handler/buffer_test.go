package handler

import (
	"errors"
	"sync"
	"testing"

	"github.com/philipp01105/easylog/core"
)

// recorder keeps what it receives
type recorder struct {
	mu      sync.Mutex
	records []core.Record
	batches [][]core.Record
	closed  bool
	err     error
}

func (r *recorder) Handle(record core.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return r.err
}

func (r *recorder) HandleBatch(records []core.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, records)
	return r.err
}

func (r *recorder) Close() error {
	r.closed = true
	return nil
}

func batchMessages(batch []core.Record) string {
	var s string
	for _, r := range batch {
		s += r.Message
	}
	return s
}

func TestBufferHandler_FlushHandsOverOneBatch(t *testing.T) {
	rec := &recorder{}
	h := NewBufferHandler(BufferConfig{Handler: rec})

	_ = h.Handle(record(core.InfoLevel, "a"))
	_ = h.Handle(record(core.DebugLevel, "b"))
	if len(rec.batches) != 0 {
		t.Fatal("records were handed over before Flush")
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}

	if err := h.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if len(rec.batches) != 1 || batchMessages(rec.batches[0]) != "ab" {
		t.Errorf("batches = %v", rec.batches)
	}

	// empty buffer flushes nothing
	_ = h.Flush()
	if len(rec.batches) != 1 {
		t.Errorf("empty flush produced a batch")
	}
}

func TestBufferHandler_Level(t *testing.T) {
	rec := &recorder{}
	h := NewBufferHandler(BufferConfig{Handler: rec, Level: core.WarningLevel})

	_ = h.HandleBatch([]core.Record{record(core.InfoLevel, "a"), record(core.ErrorLevel, "b")})
	_ = h.Flush()

	if len(rec.batches) != 1 || batchMessages(rec.batches[0]) != "b" {
		t.Errorf("batches = %v", rec.batches)
	}
}

func TestBufferHandler_Overflow(t *testing.T) {
	tests := []struct {
		policy  OverflowPolicy
		batches []string
		dropped uint64
	}{
		{Flush, []string{"ab", "cd", "e"}, 0},
		{Block, []string{"ab", "cd", "e"}, 0},
		{DropOldest, []string{"de"}, 3},
		{DropNewest, []string{"ab"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			rec := &recorder{}
			h := NewBufferHandler(BufferConfig{Handler: rec, Limit: 2, Overflow: tt.policy})
			for _, m := range []string{"a", "b", "c", "d", "e"} {
				_ = h.Handle(record(core.InfoLevel, m))
			}
			_ = h.Flush()

			var got []string
			for _, b := range rec.batches {
				got = append(got, batchMessages(b))
			}
			if len(got) != len(tt.batches) {
				t.Fatalf("batches = %v, want %v", got, tt.batches)
			}
			for i := range got {
				if got[i] != tt.batches[i] {
					t.Errorf("batch %d = %q, want %q", i, got[i], tt.batches[i])
				}
			}
			if d := h.Stats().DroppedTotal[core.InfoLevel]; d != tt.dropped {
				t.Errorf("dropped = %d, want %d", d, tt.dropped)
			}
		})
	}
}

func TestBufferHandler_Reset(t *testing.T) {
	rec := &recorder{}
	h := NewBufferHandler(BufferConfig{Handler: rec})
	_ = h.Handle(record(core.InfoLevel, "a"))
	h.Reset()
	_ = h.Flush()

	if len(rec.batches) != 0 {
		t.Errorf("Reset() kept records: %v", rec.batches)
	}
}

func TestBufferHandler_CloseFlushes(t *testing.T) {
	rec := &recorder{}
	h := NewBufferHandler(BufferConfig{Handler: rec})
	_ = h.Handle(record(core.InfoLevel, "a"))

	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(rec.batches) != 1 || !rec.closed {
		t.Errorf("batches = %v, closed = %v", rec.batches, rec.closed)
	}
}

func TestBufferHandler_FlushError(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{err: boom}
	h := NewBufferHandler(BufferConfig{Handler: rec})
	_ = h.Handle(record(core.InfoLevel, "a"))

	if err := h.Flush(); !errors.Is(err, boom) {
		t.Errorf("Flush() error = %v, want %v", err, boom)
	}
	if h.Stats().BatchesTotal != 0 {
		t.Error("failed flush was counted as processed")
	}
}
