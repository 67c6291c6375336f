package handler

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/philipp01105/easylog/core"
)

// AsyncConfig holds the queue settings shared by async handlers
type AsyncConfig struct {
	// Async enables asynchronous writing (default: false)
	Async bool
	// BufferSize is the number of batches the queue holds (default: 64)
	BufferSize int
	// OverflowPolicy defines the behavior per highest batch level
	// (default: uses DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for the blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining the queue on Close (default: 5s)
	DrainTimeout time.Duration
}

func (c *AsyncConfig) setDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 64
	}
	if c.OverflowPolicy == nil {
		c.OverflowPolicy = DefaultLevelPolicy()
	}
	if c.BlockTimeout == 0 {
		c.BlockTimeout = 100 * time.Millisecond
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 5 * time.Second
	}
}

// dispatcher hands batches to write, either directly or through a
// bounded queue drained by a background goroutine
type dispatcher struct {
	write          func([]core.Record) error
	async          bool
	queue          chan []core.Record
	wg             sync.WaitGroup
	closed         chan struct{}
	closeOnce      sync.Once
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	stats          *Stats
	logger         *zap.Logger

	// mu is held shared while a batch is enqueued and exclusively while
	// closing, so nothing lands in the queue after it was drained.
	mu       sync.RWMutex
	shutdown bool
}

func newDispatcher(cfg AsyncConfig, write func([]core.Record) error, stats *Stats, logger *zap.Logger) *dispatcher {
	cfg.setDefaults()
	d := &dispatcher{
		write:          write,
		async:          cfg.Async,
		closed:         make(chan struct{}),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		stats:          stats,
		logger:         logger,
	}
	if d.async {
		d.queue = make(chan []core.Record, cfg.BufferSize)
		d.wg.Add(1)
		go d.process()
	}
	return d
}

// dispatch writes or enqueues a batch. The batch must not be modified by
// the caller afterwards.
func (d *dispatcher) dispatch(batch []core.Record) error {
	if !d.async {
		return d.write(batch)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.shutdown {
		return d.write(batch)
	}

	policy, ok := d.overflowPolicy[maxLevel(batch)]
	if !ok {
		policy = DropNewest
	}

	switch policy {
	case Block, Flush:
		select {
		case d.queue <- batch:
			return nil
		default:
		}
		timer := time.NewTimer(d.blockTimeout)
		defer timer.Stop()
		select {
		case d.queue <- batch:
			return nil
		case <-timer.C:
			// Timeout - fall back to synchronous write
			d.stats.IncrementBlocked()
			return d.write(batch)
		}

	case DropOldest:
		select {
		case d.queue <- batch:
			return nil
		default:
			select {
			case oldest := <-d.queue:
				d.dropped(oldest)
			default:
			}
			select {
			case d.queue <- batch:
			default:
				d.dropped(batch)
			}
			return nil
		}

	default:
		select {
		case d.queue <- batch:
		default:
			d.dropped(batch)
		}
		return nil
	}
}

func (d *dispatcher) dropped(batch []core.Record) {
	d.stats.IncrementDroppedBatch(batch)
	d.logger.Warn("log queue full, batch dropped", zap.Int("records", len(batch)))
}

// process handles async batch processing
func (d *dispatcher) process() {
	defer d.wg.Done()

	for {
		select {
		case batch := <-d.queue:
			d.writeLogged(batch)
		case <-d.closed:
			// Drain remaining batches with timeout
			deadline := time.After(d.drainTimeout)
			for {
				select {
				case batch := <-d.queue:
					d.writeLogged(batch)
				case <-deadline:
					d.logger.Warn("drain timeout reached, discarding queued batches", zap.Int("batches", len(d.queue)))
					return
				default:
					return
				}
			}
		}
	}
}

func (d *dispatcher) writeLogged(batch []core.Record) {
	if err := d.write(batch); err != nil {
		d.logger.Error("writing log batch failed", zap.Int("records", len(batch)), zap.Error(err))
	}
}

// close stops the background goroutine after draining the queue
func (d *dispatcher) close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.shutdown = true
		close(d.closed)
		d.mu.Unlock()
		if d.async {
			d.wg.Wait()
		}
	})
}
