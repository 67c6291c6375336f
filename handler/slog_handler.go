package handler

import (
	"context"
	"log/slog"

	"github.com/philipp01105/easylog/core"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Handler, usually a BufferHandler. Attributes become the record context;
// groups become nested maps.
type SlogHandler struct {
	handler Handler
	channel string
	level   core.Level
	attrs   core.Map
	groups  []string
}

// NewSlogHandler creates a new slog.Handler adapter wrapping the given Handler.
// Records are tagged with channel.
func NewSlogHandler(h Handler, channel string, level core.Level) *SlogHandler {
	return &SlogHandler{
		handler: h,
		channel: channel,
		level:   level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= s.level
}

// Handle converts a slog.Record to a core.Record and passes it to the wrapped handler.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	var fields core.Map
	record.Attrs(func(a slog.Attr) bool {
		fields = appendAttr(fields, a)
		return true
	})

	return s.handler.Handle(core.Record{
		Time:    record.Time,
		Channel: s.channel,
		Level:   slogLevelToCore(record.Level),
		Message: record.Message,
		Context: insertAt(s.attrs.Clone(), s.groups, fields),
	})
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	var fields core.Map
	for _, a := range attrs {
		fields = appendAttr(fields, a)
	}
	clone := *s
	clone.attrs = insertAt(s.attrs.Clone(), s.groups, fields)
	return &clone
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	clone := *s
	clone.groups = append(append([]string(nil), s.groups...), name)
	return &clone
}

// insertAt adds fields to the map nested at path, creating the
// intermediate maps. Empty groups are not created.
func insertAt(m core.Map, path []string, fields core.Map) core.Map {
	if len(fields) == 0 {
		return m
	}
	if len(path) == 0 {
		return append(m, fields...)
	}
	for i, f := range m {
		if f.Key.Is(path[0]) && f.Value.Type == core.MapType {
			m[i].Value = core.MapValue(insertAt(f.Value.Map, path[1:], fields))
			return m
		}
	}
	return append(m, core.Field{Key: core.NamedKey(path[0]), Value: core.MapValue(insertAt(nil, path[1:], fields))})
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo+2:
		return core.NoticeLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

// appendAttr converts a slog.Attr and appends it to m. Empty attributes
// are skipped and groups without a key are inlined.
func appendAttr(m core.Map, a slog.Attr) core.Map {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return m
	}
	if a.Value.Kind() == slog.KindGroup {
		var group core.Map
		for _, ga := range a.Value.Group() {
			group = appendAttr(group, ga)
		}
		if len(group) == 0 {
			return m
		}
		if a.Key == "" {
			return append(m, group...)
		}
		return append(m, core.Field{Key: core.NamedKey(a.Key), Value: core.MapValue(group)})
	}
	return append(m, core.Field{Key: core.NamedKey(a.Key), Value: slogValue(a.Value)})
}

func slogValue(v slog.Value) core.Value {
	switch v.Kind() {
	case slog.KindString:
		return core.StringValue(v.String())
	case slog.KindInt64:
		return core.IntValue(v.Int64())
	case slog.KindUint64:
		return core.ValueOf(v.Uint64())
	case slog.KindFloat64:
		return core.FloatValue(v.Float64())
	case slog.KindBool:
		return core.BoolValue(v.Bool())
	case slog.KindTime:
		return core.TimeValue(v.Time())
	case slog.KindDuration:
		return core.StringValue(v.Duration().String())
	default:
		return core.ValueOf(v.Any())
	}
}
