package jsonl

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/philipp01105/easylog/core"
)

// maxLineSize is the longest accepted input line
const maxLineSize = 16 * 1024 * 1024

// Reader splits a stream of JSON lines into batches. A blank line ends
// the current batch. With GroupBy set, a change in the value found at
// that path ("extra.uid", "context.request_id", "channel") ends it too.
type Reader struct {
	scanner *bufio.Scanner
	decoder *Decoder
	groupBy []string
	line    int

	pending []core.Record
	ready   [][]core.Record
	group   core.Value
	grouped bool
	eof     bool
}

// NewReader creates a reader over r
func NewReader(r io.Reader, groupBy string) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var path []string
	if groupBy != "" {
		path = strings.Split(groupBy, ".")
	}
	return &Reader{
		scanner: scanner,
		decoder: NewDecoder(),
		groupBy: path,
	}
}

// Next returns the next non-empty batch. It returns io.EOF once the input
// is exhausted. A line that cannot be decoded is reported as a *LineError;
// the batch read so far is kept and reading may continue.
func (r *Reader) Next() ([]core.Record, error) {
	for len(r.ready) == 0 && !r.eof {
		if err := r.readLine(); err != nil {
			return nil, err
		}
	}
	if len(r.ready) == 0 {
		if batch := r.take(); len(batch) > 0 {
			return batch, nil
		}
		return nil, io.EOF
	}
	batch := r.ready[0]
	r.ready = r.ready[1:]
	return batch, nil
}

// Line returns the number of lines read so far
func (r *Reader) Line() int {
	return r.line
}

func (r *Reader) readLine() error {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return err
		}
		r.eof = true
		return nil
	}
	r.line++

	line := bytes.TrimSpace(r.scanner.Bytes())
	if len(line) == 0 {
		r.finish()
		return nil
	}

	records, err := r.decoder.Decode(line)
	if err != nil {
		return &LineError{Line: r.line, Err: err}
	}
	for _, rec := range records {
		r.add(rec)
	}
	return nil
}

// add appends rec to the pending batch, closing it first when rec
// starts a new group
func (r *Reader) add(rec core.Record) {
	if r.groupBy != nil {
		key, _ := lookup(rec, r.groupBy)
		if r.grouped && len(r.pending) > 0 && !key.Equal(r.group) {
			r.finish()
		}
		r.group, r.grouped = key, true
	}
	r.pending = append(r.pending, rec)
}

func (r *Reader) finish() {
	if batch := r.take(); len(batch) > 0 {
		r.ready = append(r.ready, batch)
	}
}

func (r *Reader) take() []core.Record {
	batch := r.pending
	r.pending = nil
	r.grouped = false
	return batch
}

// lookup resolves a dotted path against a record
func lookup(rec core.Record, path []string) (core.Value, bool) {
	var m core.Map
	switch path[0] {
	case "channel":
		return core.StringValue(rec.Channel), true
	case "message":
		return core.StringValue(rec.Message), true
	case "level":
		return core.StringValue(rec.Level.String()), true
	case "context":
		m = rec.Context
	case "extra":
		m = rec.Extra
	default:
		return core.NullValue(), false
	}

	for i, name := range path[1:] {
		v, ok := m.Get(name)
		if !ok {
			return core.NullValue(), false
		}
		if i == len(path)-2 {
			return v, true
		}
		if v.Type != core.MapType {
			return core.NullValue(), false
		}
		m = v.Map
	}
	return core.MapValue(m), true
}
