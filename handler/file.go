package handler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/formatter"
)

const (
	backupTimeFormat = "2006-01-02T15-04-05.000"
	compressSuffix   = ".gz"
	lockSuffix       = ".lock"
)

// FileHandler appends formatted batches to a file with rotation support.
// Writes are serialized within the process by a mutex and across
// processes by an advisory lock on a sibling ".lock" file.
type FileHandler struct {
	filename        string
	file            *os.File
	lock            *flock.Flock
	formatter       formatter.BatchFormatter
	writerFormatter formatter.WriterFormatter
	level           core.Level
	mu              sync.Mutex
	maxSize         int64
	maxAge          time.Duration
	maxBackups      int
	rotateInterval  time.Duration
	compress        bool
	currentSize     int64
	lastRotateTime  time.Time
	stats           *Stats
	logger          *zap.Logger
	dispatcher      *dispatcher
	closed          bool
}

// FileConfig holds configuration for file handler
type FileConfig struct {
	AsyncConfig
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: EasyLogFormatter with the default configuration)
	Formatter formatter.BatchFormatter
	// Level is the minimum level written; lower records are removed from
	// each batch (default: DebugLevel)
	Level core.Level
	// MaxSize is the maximum size in bytes before rotation (0 = no size rotation)
	MaxSize int64
	// MaxAge is the maximum age before rotation (0 = no time rotation)
	MaxAge time.Duration
	// MaxBackups is the maximum number of old log files to retain (0 = keep all)
	MaxBackups int
	// RotateInterval is the interval for time-based rotation (0 = no interval rotation)
	RotateInterval time.Duration
	// Compress gzips rotated backups
	Compress bool
	// Logger receives rotation and write failures (default: no-op)
	Logger *zap.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(cfg FileConfig) (*FileHandler, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewEasyLogFormatter(formatter.DefaultConfig())
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(cfg.Filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := openLogFile(cfg.Filename)
	if err != nil {
		return nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	h := &FileHandler{
		filename:       cfg.Filename,
		file:           file,
		lock:           flock.New(cfg.Filename + lockSuffix),
		formatter:      cfg.Formatter,
		level:          cfg.Level,
		maxSize:        cfg.MaxSize,
		maxAge:         cfg.MaxAge,
		maxBackups:     cfg.MaxBackups,
		rotateInterval: cfg.RotateInterval,
		compress:       cfg.Compress,
		currentSize:    info.Size(),
		lastRotateTime: time.Now(),
		stats:          NewStats(),
		logger:         cfg.Logger.With(zap.String("file", cfg.Filename)),
	}

	// Cache WriterFormatter to skip the intermediate string
	h.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)
	h.dispatcher = newDispatcher(cfg.AsyncConfig, h.write, h.stats, h.logger)

	return h, nil
}

func openLogFile(name string) (*os.File, error) {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return file, nil
}

// Handle rejects single records unless the formatter can format them one
// by one. The EasyLog formatter panics with ErrWrongConfiguration here.
func (h *FileHandler) Handle(record core.Record) error {
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
	return h.append(1, func(w io.Writer) (int, error) { return w.Write(data) })
}

// HandleBatch drops the records below the handler level and writes the
// remaining ones as one batch. Nothing is written when no record is left.
func (h *FileHandler) HandleBatch(records []core.Record) error {
	records = filterLevel(records, h.level)
	if len(records) == 0 {
		return nil
	}
	if h.dispatcher.async {
		// the caller may reuse its slice once we return
		records = append([]core.Record(nil), records...)
	}
	return h.dispatcher.dispatch(records)
}

// write formats and writes a batch
func (h *FileHandler) write(records []core.Record) error {
	if h.writerFormatter != nil {
		return h.append(len(records), func(w io.Writer) (int, error) {
			return h.writerFormatter.FormatBatchTo(records, w)
		})
	}
	out := h.formatter.FormatBatch(records)
	if out == "" {
		return nil
	}
	return h.append(len(records), func(w io.Writer) (int, error) { return io.WriteString(w, out) })
}

// append runs writeTo against the file under both locks
func (h *FileHandler) append(records int, writeTo func(io.Writer) (int, error)) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.file == nil {
		return os.ErrClosed
	}

	// Check if rotation is needed
	if err := h.rotateIfNeeded(); err != nil {
		h.logger.Error("log rotation failed", zap.Error(err))
		if h.file == nil {
			return err
		}
	}

	if err := h.lock.Lock(); err != nil {
		return fmt.Errorf("lock log file: %w", err)
	}
	n, err := writeTo(h.file)
	if unlockErr := h.lock.Unlock(); unlockErr != nil {
		h.logger.Warn("unlocking log file failed", zap.Error(unlockErr))
	}

	h.currentSize += int64(n)
	if err != nil {
		return fmt.Errorf("write log file: %w", err)
	}
	if n > 0 {
		h.stats.IncrementProcessed(records)
	}
	return nil
}

// rotateIfNeeded checks and performs rotation if needed
func (h *FileHandler) rotateIfNeeded() error {
	needRotate := false

	// Check size-based rotation
	if h.maxSize > 0 && h.currentSize >= h.maxSize {
		needRotate = true
	}

	// Check time-based rotation (by age)
	if h.maxAge > 0 && time.Since(h.lastRotateTime) >= h.maxAge {
		needRotate = true
	}

	// Check interval-based rotation
	if h.rotateInterval > 0 && time.Since(h.lastRotateTime) >= h.rotateInterval {
		needRotate = true
	}

	if !needRotate {
		return nil
	}

	return h.rotate()
}

// rotate performs the actual file rotation
func (h *FileHandler) rotate() error {
	// Sync and close current file
	if err := h.file.Sync(); err != nil {
		return err
	}
	if err := h.file.Close(); err != nil {
		h.file = nil
		return err
	}
	h.file = nil

	// Rename current file with timestamp
	rotatedName := h.filename + "." + time.Now().Format(backupTimeFormat)

	if err := os.Rename(h.filename, rotatedName); err != nil {
		// If rename fails, try to reopen the original file
		file, openErr := openLogFile(h.filename)
		if openErr != nil {
			return fmt.Errorf("rotation failed: %w, reopen failed: %v", err, openErr)
		}
		h.file = file
		return err
	}

	file, err := openLogFile(h.filename)
	if err != nil {
		return err
	}
	h.file = file
	h.currentSize = 0
	h.lastRotateTime = time.Now()
	h.logger.Debug("log file rotated", zap.String("backup", rotatedName))

	if h.compress {
		if err := compressFile(rotatedName); err != nil {
			h.logger.Warn("compressing log backup failed", zap.String("backup", rotatedName), zap.Error(err))
		}
	}

	// Clean up old backups if needed
	if h.maxBackups > 0 {
		h.cleanupOldBackups()
	}

	return nil
}

// compressFile replaces name with a gzipped copy
func compressFile(name string) (err error) {
	src, err := os.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(name+compressSuffix, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(name + compressSuffix)
		}
	}()

	zw := gzip.NewWriter(dst)
	zw.Name = filepath.Base(name)
	if _, err = io.Copy(zw, src); err != nil {
		_ = dst.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		_ = dst.Close()
		return err
	}
	if err = dst.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}

// backupTime extracts the rotation time from a backup file name
func backupTime(base, name string) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return time.Time{}, false
	}
	stamp = strings.TrimSuffix(stamp, compressSuffix)
	t, err := time.ParseInLocation(backupTimeFormat, stamp, time.Local)
	return t, err == nil
}

// cleanupOldBackups removes old backup files based on MaxBackups
func (h *FileHandler) cleanupOldBackups() {
	dir := filepath.Dir(h.filename)
	base := filepath.Base(h.filename)

	matches, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil {
		return
	}

	type backup struct {
		path string
		at   time.Time
	}
	var backups []backup
	for _, match := range matches {
		if at, ok := backupTime(base, filepath.Base(match)); ok {
			backups = append(backups, backup{path: match, at: at})
		}
	}

	// Oldest first
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].at.Before(backups[j].at)
	})

	if len(backups) > h.maxBackups {
		for _, b := range backups[:len(backups)-h.maxBackups] {
			if err := os.Remove(b.path); err != nil && !errors.Is(err, os.ErrNotExist) {
				h.logger.Warn("removing log backup failed", zap.String("backup", b.path), zap.Error(err))
			}
		}
	}
}

// Stats returns a snapshot of the current statistics
func (h *FileHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close drains the queue and closes the file
func (h *FileHandler) Close() error {
	h.dispatcher.close()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.file == nil {
		return nil
	}
	file := h.file
	h.file = nil
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
