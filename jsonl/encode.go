package jsonl

import (
	"bytes"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/philipp01105/easylog/core"
)

// Encoder writes records as monolog-compatible JSON lines. Batches are
// separated by a blank line so that Reader reads them back as such.
type Encoder struct {
	// TimestampFormat is the layout of the datetime field
	TimestampFormat string
}

// NewEncoder creates a new encoder using monolog's datetime layout
func NewEncoder() *Encoder {
	return &Encoder{TimestampFormat: monologTime}
}

var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(1024)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 {
		return
	}
	bufferPool.Put(buf)
}

// Format encodes one record as a single line
func (e *Encoder) Format(r core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	e.encodeRecord(r, buf)

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatBatch encodes the records one per line followed by a blank line.
// An empty batch yields an empty string.
func (e *Encoder) FormatBatch(records []core.Record) string {
	if len(records) == 0 {
		return ""
	}
	buf := getBuffer()
	defer putBuffer(buf)

	for _, r := range records {
		e.encodeRecord(r, buf)
	}
	buf.WriteByte('\n')
	return buf.String()
}

// FormatBatchTo encodes the records directly to the writer
func (e *Encoder) FormatBatchTo(records []core.Record, w io.Writer) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	buf := getBuffer()
	defer putBuffer(buf)

	for _, r := range records {
		e.encodeRecord(r, buf)
	}
	buf.WriteByte('\n')
	return w.Write(buf.Bytes())
}

// encodeRecord builds JSON manually into the buffer
func (e *Encoder) encodeRecord(r core.Record, buf *bytes.Buffer) {
	layout := e.TimestampFormat
	if layout == "" {
		layout = monologTime
	}

	buf.WriteString(`{"message":"`)
	appendJSONString(buf, r.Message)

	buf.WriteString(`","context":`)
	appendMap(buf, r.Context, layout)

	buf.WriteString(`,"level":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(r.Level.Code()), 10))

	buf.WriteString(`,"level_name":"`)
	buf.WriteString(r.Level.String())

	buf.WriteString(`","channel":"`)
	appendJSONString(buf, r.Channel)
	buf.WriteByte('"')

	if !r.Time.IsZero() {
		buf.WriteString(`,"datetime":"`)
		buf.Write(r.Time.AppendFormat(buf.AvailableBuffer(), layout))
		buf.WriteByte('"')
	}

	extra := r.Extra
	switch r.Display {
	case core.DisplayHidden:
		extra = extra.Set(core.DisplayLogInfoKey, core.BoolValue(false))
	case core.DisplayShown:
		extra = extra.Set(core.DisplayLogInfoKey, core.BoolValue(true))
	}
	buf.WriteString(`,"extra":`)
	appendMap(buf, extra, layout)

	buf.WriteString("}\n")
}

// appendMap writes a positional Map as an array and anything else as an
// object. The empty Map is written as [] the way PHP encodes empty arrays.
func appendMap(buf *bytes.Buffer, m core.Map, layout string) {
	if len(m) == 0 {
		buf.WriteString("[]")
		return
	}
	if isList(m) {
		buf.WriteByte('[')
		for i, f := range m {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendValue(buf, f.Value, layout)
		}
		buf.WriteByte(']')
		return
	}

	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		appendJSONString(buf, f.Key.String())
		buf.WriteString(`":`)
		appendValue(buf, f.Value, layout)
	}
	buf.WriteByte('}')
}

func isList(m core.Map) bool {
	for i, f := range m {
		if !f.Key.Indexed || f.Key.Index != i {
			return false
		}
	}
	return true
}

// appendValue writes a JSON-encoded value to the buffer
func appendValue(buf *bytes.Buffer, v core.Value, layout string) {
	switch v.Type {
	case core.NullType:
		buf.WriteString("null")
	case core.StringType:
		buf.WriteByte('"')
		appendJSONString(buf, v.Str)
		buf.WriteByte('"')
	case core.IntType:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), v.Int64, 10))
	case core.FloatType:
		if math.IsInf(v.Float64, 0) || math.IsNaN(v.Float64) {
			buf.WriteString("null")
			return
		}
		s := strconv.FormatFloat(v.Float64, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		buf.WriteString(s)
	case core.BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), v.Bool()))
	case core.TimeType:
		buf.WriteByte('"')
		buf.Write(v.Time.AppendFormat(buf.AvailableBuffer(), layout))
		buf.WriteByte('"')
	case core.ErrorType:
		appendException(buf, v.Err, 0)
	case core.MapType:
		appendMap(buf, v.Map, layout)
	case core.ListType:
		buf.WriteByte('[')
		for i, item := range v.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendValue(buf, item, layout)
		}
		buf.WriteByte(']')
	default:
		buf.WriteByte('"')
		appendJSONString(buf, v.String())
		buf.WriteByte('"')
	}
}

// appendException writes the normalized form of an error value
func appendException(buf *bytes.Buffer, t *core.Throwable, depth int) {
	if t == nil {
		buf.WriteString("null")
		return
	}
	buf.WriteString(`{"class":"`)
	appendJSONString(buf, t.Class)
	buf.WriteString(`","message":"`)
	appendJSONString(buf, t.Message)
	buf.WriteString(`","code":`)
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(t.Code), 10))
	buf.WriteString(`,"file":"`)
	appendJSONString(buf, t.File+":"+strconv.Itoa(t.Line))
	buf.WriteString(`","trace":[`)
	for i, f := range t.Trace {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		appendJSONString(buf, f.File+":"+strconv.Itoa(f.Line))
		buf.WriteByte('"')
	}
	buf.WriteByte(']')
	if t.Previous != nil && depth+1 < maxExceptionDepth {
		buf.WriteString(`,"previous":`)
		appendException(buf, t.Previous, depth+1)
	}
	buf.WriteByte('}')
}

// appendJSONString writes a JSON-escaped string (without surrounding quotes) to the buffer
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		// Flush unescaped prefix
		if start < i {
			buf.WriteString(s[start:i])
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexChars[c>>4])
			buf.WriteByte(hexChars[c&0x0f])
		}
		start = i + 1
	}
	if start < len(s) {
		buf.WriteString(s[start:])
	}
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
