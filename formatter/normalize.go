package formatter

import (
	"gopkg.in/yaml.v3"

	"github.com/philipp01105/easylog/core"
)

// isoTime is the rendering of timestamps inside dumped values
const isoTime = "2006-01-02T15:04:05-07:00"

// maxErrorDepth bounds the rendered cause chain of an error value
const maxErrorDepth = 32

// normalizer rewrites values that have no direct dump form
type normalizer struct {
	errors bool
}

func (n normalizer) mapOf(m core.Map) core.Map {
	out := make(core.Map, len(m))
	for i, f := range m {
		out[i] = core.Field{Key: f.Key, Value: n.value(f.Value)}
	}
	return out
}

func (n normalizer) value(v core.Value) core.Value {
	switch v.Type {
	case core.TimeType:
		return core.StringValue(v.Time.Format(isoTime))
	case core.ErrorType:
		if n.errors {
			return n.throwable(v.Err, 0)
		}
	case core.MapType:
		return core.MapValue(n.mapOf(v.Map))
	case core.ListType:
		list := make([]core.Value, len(v.List))
		for i, item := range v.List {
			list[i] = n.value(item)
		}
		return core.ListValue(list...)
	}
	return v
}

// throwable renders an error value. Errors that know how to serialize
// themselves as YAML are trusted; the rest get a structured approximation.
func (n normalizer) throwable(t *core.Throwable, depth int) core.Value {
	if t == nil {
		return core.NullValue()
	}
	if m, ok := t.Err.(yaml.Marshaler); ok {
		if out, err := m.MarshalYAML(); err == nil {
			if v := core.ValueOf(out); v.Type != core.ErrorType {
				return n.value(v)
			}
		}
	}

	previous := core.NullValue()
	if t.Previous != nil && depth+1 < maxErrorDepth {
		previous = n.throwable(t.Previous, depth+1)
	}
	return core.MapValue(core.Map{
		core.F("class", t.Class),
		core.F("message", t.Message),
		core.F("code", t.Code),
		core.F("file", t.File),
		core.F("line", t.Line),
		core.F("trace", t.TraceString()),
		{Key: core.NamedKey("previous"), Value: previous},
	})
}
