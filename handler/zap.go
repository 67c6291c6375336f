package handler

import (
	"sort"

	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/easylog/core"
)

// ZapCore is a zapcore.Core that turns zap entries into records for a
// Handler. Fields become the record context, namespaces become nested
// maps and the caller goes to extra.
type ZapCore struct {
	handler   Handler
	channel   string
	level     core.Level
	fields    core.Map
	namespace []string
}

// NewZapCore creates a zapcore.Core writing to h. The logger name, when
// set, overrides channel.
func NewZapCore(h Handler, channel string, level core.Level) *ZapCore {
	return &ZapCore{handler: h, channel: channel, level: level}
}

// Enabled implements zapcore.LevelEnabler
func (c *ZapCore) Enabled(level zapcore.Level) bool {
	return zapLevelToCore(level) >= c.level
}

// With returns a core that adds fields to every record
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields, clone.namespace = appendZapFields(c.fields.Clone(), append([]string(nil), c.namespace...), fields)
	return &clone
}

// Check adds the core to ce when the level is enabled
func (c *ZapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write converts the entry and hands it to the handler
func (c *ZapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	context, _ := appendZapFields(c.fields.Clone(), append([]string(nil), c.namespace...), fields)

	channel := c.channel
	if ent.LoggerName != "" {
		channel = ent.LoggerName
	}

	var extra core.Map
	if ent.Caller.Defined {
		extra = core.Map{
			core.F("file", ent.Caller.File),
			core.F("line", ent.Caller.Line),
		}
		if ent.Caller.Function != "" {
			extra = append(extra, core.F("function", ent.Caller.Function))
		}
	}

	return c.handler.Handle(core.Record{
		Time:    ent.Time,
		Channel: channel,
		Level:   zapLevelToCore(ent.Level),
		Message: ent.Message,
		Context: context,
		Extra:   extra,
	})
}

// Sync flushes the handler when it buffers records
func (c *ZapCore) Sync() error {
	if f, ok := c.handler.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// appendZapFields converts fields in order. A namespace field opens a
// nested map that holds every following field.
func appendZapFields(m core.Map, namespace []string, fields []zapcore.Field) (core.Map, []string) {
	for _, f := range fields {
		switch f.Type {
		case zapcore.SkipType:
			continue
		case zapcore.NamespaceType:
			namespace = append(namespace, f.Key)
			continue
		case zapcore.ErrorType:
			if err, ok := f.Interface.(error); ok {
				m = insertAt(m, namespace, core.Map{{Key: core.NamedKey(f.Key), Value: core.ErrorValue(err)}})
				continue
			}
		}

		enc := zapcore.NewMapObjectEncoder()
		f.AddTo(enc)
		keys := make([]string, 0, len(enc.Fields))
		for k := range enc.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		converted := make(core.Map, 0, len(keys))
		for _, k := range keys {
			converted = append(converted, core.F(k, enc.Fields[k]))
		}
		m = insertAt(m, namespace, converted)
	}
	return m, namespace
}

// zapLevelToCore converts a zapcore.Level to a core.Level.
func zapLevelToCore(level zapcore.Level) core.Level {
	switch {
	case level >= zapcore.FatalLevel:
		return core.EmergencyLevel
	case level >= zapcore.PanicLevel:
		return core.AlertLevel
	case level >= zapcore.DPanicLevel:
		return core.CriticalLevel
	case level >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case level >= zapcore.WarnLevel:
		return core.WarningLevel
	case level >= zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
