package handler

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/philipp01105/easylog/core"
)

// OverflowPolicy defines how to handle full queues and buffers
type OverflowPolicy int

const (
	// DropNewest drops the incoming batch or record when full
	DropNewest OverflowPolicy = iota
	// DropOldest drops the oldest queued batch or buffered record when full
	DropOldest
	// Block blocks the caller until space is available (with timeout).
	// A BufferHandler treats it like Flush.
	Block
	// Flush hands the buffered records to the wrapped handler early.
	// An async queue treats it like Block.
	Flush
)

// String returns the string representation of the policy
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	case Flush:
		return "Flush"
	default:
		return "Unknown"
	}
}

// ParseOverflowPolicy converts a configuration value such as "drop_oldest"
// to an OverflowPolicy
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "drop_newest", "dropnewest":
		return DropNewest, nil
	case "drop_oldest", "dropoldest":
		return DropOldest, nil
	case "block":
		return Block, nil
	case "flush", "":
		return Flush, nil
	}
	return Flush, fmt.Errorf("unknown overflow policy %q", s)
}

// DefaultLevelPolicy returns the default overflow policies of async
// queues, keyed by the highest level of a batch
func DefaultLevelPolicy() map[core.Level]OverflowPolicy {
	return map[core.Level]OverflowPolicy{
		core.DebugLevel:     DropNewest, // Drop debug batches when full
		core.InfoLevel:      DropNewest,
		core.NoticeLevel:    DropNewest,
		core.WarningLevel:   DropNewest,
		core.ErrorLevel:     Block, // Block for errors (with timeout)
		core.CriticalLevel:  Block,
		core.AlertLevel:     Block,
		core.EmergencyLevel: Block,
	}
}

// numLevels is the number of known levels
const numLevels = int(core.EmergencyLevel) + 1

// Stats tracks handler statistics
type Stats struct {
	// dropped records per level
	dropped [numLevels]uint64
	// BlockedTotal counts times a caller blocked on a full queue
	BlockedTotal uint64
	// ProcessedTotal counts written records
	ProcessedTotal uint64
	// BatchesTotal counts written batches
	BatchesTotal uint64
}

// NewStats creates a new Stats instance
func NewStats() *Stats {
	return &Stats{}
}

// IncrementDropped atomically increments the dropped counter for a level.
// Unknown levels are counted as emergencies.
func (s *Stats) IncrementDropped(level core.Level) {
	atomic.AddUint64(&s.dropped[levelIndex(level)], 1)
}

// IncrementDroppedBatch counts every record of a dropped batch
func (s *Stats) IncrementDroppedBatch(records []core.Record) {
	for _, r := range records {
		s.IncrementDropped(r.Level)
	}
}

// IncrementBlocked atomically increments the blocked counter
func (s *Stats) IncrementBlocked() {
	atomic.AddUint64(&s.BlockedTotal, 1)
}

// IncrementProcessed counts a written batch of n records
func (s *Stats) IncrementProcessed(n int) {
	atomic.AddUint64(&s.ProcessedTotal, uint64(n))
	atomic.AddUint64(&s.BatchesTotal, 1)
}

// GetDropped returns the dropped count for a level
func (s *Stats) GetDropped(level core.Level) uint64 {
	return atomic.LoadUint64(&s.dropped[levelIndex(level)])
}

// GetBlocked returns the blocked count
func (s *Stats) GetBlocked() uint64 {
	return atomic.LoadUint64(&s.BlockedTotal)
}

// GetProcessed returns the processed record count
func (s *Stats) GetProcessed() uint64 {
	return atomic.LoadUint64(&s.ProcessedTotal)
}

// GetBatches returns the written batch count
func (s *Stats) GetBatches() uint64 {
	return atomic.LoadUint64(&s.BatchesTotal)
}

// GetTotalDropped returns the total dropped across all levels
func (s *Stats) GetTotalDropped() uint64 {
	var total uint64
	for i := range s.dropped {
		total += atomic.LoadUint64(&s.dropped[i])
	}
	return total
}

// Reset resets all counters to zero
func (s *Stats) Reset() {
	for i := range s.dropped {
		atomic.StoreUint64(&s.dropped[i], 0)
	}
	atomic.StoreUint64(&s.BlockedTotal, 0)
	atomic.StoreUint64(&s.ProcessedTotal, 0)
	atomic.StoreUint64(&s.BatchesTotal, 0)
}

func levelIndex(level core.Level) int {
	if level < core.DebugLevel || level > core.EmergencyLevel {
		return int(core.EmergencyLevel)
	}
	return int(level)
}

// Snapshot returns a snapshot of current stats
type Snapshot struct {
	DroppedTotal   map[core.Level]uint64
	BlockedTotal   uint64
	ProcessedTotal uint64
	BatchesTotal   uint64
}

// GetSnapshot returns a snapshot of current statistics
func (s *Stats) GetSnapshot() Snapshot {
	dropped := make(map[core.Level]uint64, numLevels)
	for i := 0; i < numLevels; i++ {
		dropped[core.Level(i)] = s.GetDropped(core.Level(i))
	}
	return Snapshot{
		DroppedTotal:   dropped,
		BlockedTotal:   s.GetBlocked(),
		ProcessedTotal: s.GetProcessed(),
		BatchesTotal:   s.GetBatches(),
	}
}
