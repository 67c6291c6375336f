package jsonl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/philipp01105/easylog/core"
)

// maxExceptionDepth bounds the decoded chain of previous exceptions
const maxExceptionDepth = 32

// monologTime is the datetime layout of monolog's JSON formatter
const monologTime = "2006-01-02T15:04:05.000000-07:00"

var timeLayouts = []string{
	time.RFC3339Nano,
	monologTime,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ErrNotObject is returned for lines that hold neither an object nor an
// array of objects
var ErrNotObject = errors.New("jsonl: record is not a JSON object")

// Decoder converts JSON lines to records. It is safe for concurrent use.
type Decoder struct {
	parsers fastjson.ParserPool
}

// NewDecoder creates a new decoder
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode parses one line. An object yields one record, an array of
// objects yields one record per element.
func (d *Decoder) Decode(line []byte) ([]core.Record, error) {
	p := d.parsers.Get()
	defer d.parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return nil, err
	}

	switch v.Type() {
	case fastjson.TypeObject:
		return []core.Record{decodeRecord(v)}, nil
	case fastjson.TypeArray:
		items, _ := v.Array()
		records := make([]core.Record, 0, len(items))
		for _, item := range items {
			if item.Type() != fastjson.TypeObject {
				return nil, ErrNotObject
			}
			records = append(records, decodeRecord(item))
		}
		return records, nil
	default:
		return nil, ErrNotObject
	}
}

// decodeRecord copies everything out of v; the parser is reused afterwards
func decodeRecord(v *fastjson.Value) core.Record {
	r := core.Record{
		Time:    decodeTime(v),
		Channel: string(v.GetStringBytes("channel")),
		Level:   decodeLevel(v),
		Message: string(v.GetStringBytes("message")),
		Context: decodeMap(v.Get("context"), 0),
		Extra:   decodeMap(v.Get("extra"), 0),
	}
	if r.Message == "" {
		r.Message = string(v.GetStringBytes("msg"))
	}
	return r
}

func decodeTime(v *fastjson.Value) time.Time {
	for _, key := range []string{"datetime", "time", "timestamp"} {
		tv := v.Get(key)
		if tv == nil {
			continue
		}
		switch tv.Type() {
		case fastjson.TypeString:
			if t, ok := parseTime(string(tv.GetStringBytes())); ok {
				return t
			}
		case fastjson.TypeNumber:
			if sec, err := tv.Int64(); err == nil {
				return time.Unix(sec, 0)
			}
			f := tv.GetFloat64()
			return time.Unix(0, int64(f*float64(time.Second)))
		}
	}
	return time.Time{}
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// decodeLevel prefers level_name and falls back to level, which may be a
// name or a monolog code. Unknown levels decode as debug.
func decodeLevel(v *fastjson.Value) core.Level {
	if name := v.GetStringBytes("level_name"); name != nil {
		if l, ok := core.ParseLevel(string(name)); ok {
			return l
		}
	}
	lv := v.Get("level")
	if lv == nil {
		return core.DebugLevel
	}
	switch lv.Type() {
	case fastjson.TypeString:
		if l, ok := core.ParseLevel(string(lv.GetStringBytes())); ok {
			return l
		}
	case fastjson.TypeNumber:
		if l, ok := core.LevelFromCode(lv.GetInt()); ok {
			return l
		}
	}
	return core.DebugLevel
}

// decodeMap turns an object into an ordered Map and an array into a
// positional one. Anything else yields an empty Map.
func decodeMap(v *fastjson.Value, depth int) core.Map {
	if v == nil {
		return nil
	}
	switch v.Type() {
	case fastjson.TypeObject:
		o, _ := v.Object()
		m := make(core.Map, 0, o.Len())
		o.Visit(func(key []byte, item *fastjson.Value) {
			m = append(m, core.Field{Key: decodeKey(key), Value: decodeValue(item, depth+1)})
		})
		return m
	case fastjson.TypeArray:
		items, _ := v.Array()
		vs := make([]core.Value, len(items))
		for i, item := range items {
			vs[i] = decodeValue(item, depth+1)
		}
		return core.ListMap(vs...)
	}
	return nil
}

// decodeKey maps canonical non-negative integers to positional keys, the
// way PHP arrays serialize their numeric keys.
func decodeKey(key []byte) core.Key {
	s := string(key)
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && strconv.Itoa(n) == s {
		return core.IndexKey(n)
	}
	return core.NamedKey(s)
}

func decodeValue(v *fastjson.Value, depth int) core.Value {
	switch v.Type() {
	case fastjson.TypeNull:
		return core.NullValue()
	case fastjson.TypeTrue:
		return core.BoolValue(true)
	case fastjson.TypeFalse:
		return core.BoolValue(false)
	case fastjson.TypeString:
		return core.StringValue(string(v.GetStringBytes()))
	case fastjson.TypeNumber:
		if n, err := v.Int64(); err == nil {
			return core.IntValue(n)
		}
		return core.FloatValue(v.GetFloat64())
	case fastjson.TypeArray:
		items, _ := v.Array()
		vs := make([]core.Value, len(items))
		for i, item := range items {
			vs[i] = decodeValue(item, depth+1)
		}
		return core.ListValue(vs...)
	case fastjson.TypeObject:
		if isException(v) && depth < maxExceptionDepth {
			return core.ThrowableValue(decodeException(v, 0))
		}
		return core.MapValue(decodeMap(v, depth))
	}
	return core.NullValue()
}

// isException recognizes the normalized form of an exception
func isException(v *fastjson.Value) bool {
	if v.Get("class") == nil || v.Get("message") == nil {
		return false
	}
	return v.Get("trace") != nil || v.Get("file") != nil
}

func decodeException(v *fastjson.Value, depth int) *core.Throwable {
	t := &core.Throwable{
		Class:   string(v.GetStringBytes("class")),
		Message: string(v.GetStringBytes("message")),
		Code:    v.GetInt("code"),
	}
	t.File, t.Line = splitLocation(string(v.GetStringBytes("file")))
	if line := v.GetInt("line"); line != 0 {
		t.Line = line
	}

	if trace := v.Get("trace"); trace != nil {
		switch trace.Type() {
		case fastjson.TypeArray:
			items, _ := trace.Array()
			for _, item := range items {
				t.Trace = append(t.Trace, decodeFrame(item))
			}
		case fastjson.TypeString:
			t.Trace = parseTraceString(string(trace.GetStringBytes()))
		}
	}

	if prev := v.Get("previous"); prev != nil && prev.Type() == fastjson.TypeObject && depth+1 < maxExceptionDepth {
		t.Previous = decodeException(prev, depth+1)
	}
	return t
}

func decodeFrame(v *fastjson.Value) core.Frame {
	switch v.Type() {
	case fastjson.TypeString:
		file, line := splitLocation(string(v.GetStringBytes()))
		return core.Frame{File: file, Line: line}
	case fastjson.TypeObject:
		frames := core.FramesFromValue(core.ListValue(core.MapValue(decodeMap(v, 0))))
		if len(frames) == 1 {
			return frames[0]
		}
	}
	return core.Frame{}
}

// splitLocation splits "path:line". A location without a numeric suffix
// is returned unchanged with line 0.
func splitLocation(s string) (string, int) {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return s, 0
	}
	line, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, 0
	}
	return s[:i], line
}

// parseTraceString reads the "#0 file(line): function()" form
func parseTraceString(s string) []core.Frame {
	var frames []core.Frame
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		_, rest, ok := strings.Cut(line, " ")
		if !ok || rest == "{main}" {
			continue
		}
		var f core.Frame
		if loc, call, found := strings.Cut(rest, ": "); found && strings.HasSuffix(loc, ")") {
			if open := strings.LastIndexByte(loc, '('); open > 0 {
				f.File = loc[:open]
				f.Line, _ = strconv.Atoi(loc[open+1 : len(loc)-1])
			}
			rest = call
		}
		f.Function = strings.TrimSuffix(rest, "()")
		frames = append(frames, f)
	}
	return frames
}

// LineError reports a line of the input that could not be decoded
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("jsonl: line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
