package formatter

import (
	"bytes"
	"errors"
	"io"
	"runtime"
	"sync"

	"github.com/philipp01105/easylog/core"
)

// ErrWrongConfiguration is the panic value of single-record formatting.
// EasyLog only works on batches; reaching Format means a handler was wired
// without a buffer in front of it.
var ErrWrongConfiguration = errors.New("formatter: wrong configuration, records must be formatted in batches (wrap the handler in a buffer)")

// Formatter defines the single-record formatting path
type Formatter interface {
	// Format formats one record
	Format(record core.Record) ([]byte, error)
}

// BatchFormatter formats a whole unit of work at once
type BatchFormatter interface {
	// FormatBatch formats the ordered records into a single text blob.
	// An empty result means the batch must not be written.
	FormatBatch(records []core.Record) string
}

// WriterFormatter is an optional interface that batch formatters can
// implement to write directly to a writer.
type WriterFormatter interface {
	// FormatBatchTo formats the records and writes them to w
	FormatBatchTo(records []core.Record, w io.Writer) (int, error)
}

// Config holds the formatter configuration. It is read-only once the
// formatter is built.
type Config struct {
	// MaxLineLength is the width of banners and wrapped messages
	MaxLineLength int
	// PrefixLength is the indentation of messages and dumped values
	PrefixLength int
	// IgnoredRoutes suppresses every batch holding a record whose
	// context.route is in the list
	IgnoredRoutes []string
	// ProjectDir is stripped from stack trace file paths
	ProjectDir string
	// LineEnding replaces "\n" in the final output
	LineEnding string
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MaxLineLength: 120,
		PrefixLength:  2,
		IgnoredRoutes: []string{"_wdt", "_profiler"},
		LineEnding:    PlatformNewline(),
	}
}

// PlatformNewline returns the line ending of the running platform
func PlatformNewline() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(4096)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
