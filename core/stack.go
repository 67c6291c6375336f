package core

import (
	"runtime"
	"strconv"
	"strings"
)

// StackKey is the context key holding a stack trace
const StackKey = "stack"

// Frame is one entry of a stack trace
type Frame struct {
	Class    string
	Type     string
	Function string
	File     string
	Line     int
}

// CaptureStack returns the frames of the calling goroutine, skipping
// skip frames above the caller of CaptureStack.
func CaptureStack(skip int) []Frame {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]Frame, 0, n)
	for {
		fr, more := frames.Next()
		if fr.Function != "" {
			f := frameFromFunction(fr.Function)
			f.File = fr.File
			f.Line = fr.Line
			out = append(out, f)
		}
		if !more {
			break
		}
	}
	return out
}

// frameFromFunction splits a runtime function name such as
// "example.com/pkg.(*Server).Serve" into receiver and method.
func frameFromFunction(name string) Frame {
	short := name
	if i := strings.LastIndexByte(short, '/'); i >= 0 {
		short = short[i+1:]
	}
	if i := strings.Index(short, ")."); i > 0 && strings.Contains(short[:i], ".(") {
		return Frame{Class: short[:i+1], Type: ".", Function: short[i+2:]}
	}
	return Frame{Function: short}
}

// StackValue encodes frames the way they travel in a record's context
func StackValue(frames []Frame) Value {
	list := make([]Value, 0, len(frames))
	for _, f := range frames {
		m := make(Map, 0, 5)
		if f.Class != "" {
			m = append(m, Field{Key: NamedKey("class"), Value: StringValue(f.Class)})
			m = append(m, Field{Key: NamedKey("type"), Value: StringValue(f.Type)})
		}
		if f.Function != "" {
			m = append(m, Field{Key: NamedKey("function"), Value: StringValue(f.Function)})
		}
		if f.File != "" {
			m = append(m, Field{Key: NamedKey("file"), Value: StringValue(f.File)})
			m = append(m, Field{Key: NamedKey("line"), Value: IntValue(int64(f.Line))})
		}
		list = append(list, MapValue(m))
	}
	return ListValue(list...)
}

// FramesFromValue decodes a stack context value. Entries that are not
// mappings are skipped; missing parts stay empty.
func FramesFromValue(v Value) []Frame {
	var items []Value
	switch v.Type {
	case ListType:
		items = v.List
	case MapType:
		for _, f := range v.Map {
			items = append(items, f.Value)
		}
	default:
		return nil
	}

	out := make([]Frame, 0, len(items))
	for _, item := range items {
		if item.Type != MapType {
			continue
		}
		var f Frame
		for _, field := range item.Map {
			switch field.Key.String() {
			case "class":
				f.Class = field.Value.String()
			case "type":
				f.Type = field.Value.String()
			case "function":
				f.Function = field.Value.String()
			case "file":
				f.File = field.Value.String()
			case "line":
				f.Line = lineOf(field.Value)
			}
		}
		out = append(out, f)
	}
	return out
}

func lineOf(v Value) int {
	switch v.Type {
	case IntType:
		return int(v.Int64)
	case FloatType:
		return int(v.Float64)
	case StringType:
		n, _ := strconv.Atoi(v.Str)
		return n
	}
	return 0
}
