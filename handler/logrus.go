package handler

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/easylog/core"
)

// ChannelField is the logrus field that overrides the hook's channel
const ChannelField = "channel"

// LogrusHook is a logrus.Hook that forwards entries to a Handler
type LogrusHook struct {
	handler Handler
	channel string
	levels  []logrus.Level
}

// NewLogrusHook creates a hook for every logrus level at or above level
func NewLogrusHook(h Handler, channel string, level core.Level) *LogrusHook {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if logrusLevelToCore(l) >= level {
			levels = append(levels, l)
		}
	}
	return &LogrusHook{handler: h, channel: channel, levels: levels}
}

// Levels implements logrus.Hook
func (h *LogrusHook) Levels() []logrus.Level {
	return h.levels
}

// Fire converts the entry and hands it to the handler. Data keys are
// sorted; the error field keeps its error value.
func (h *LogrusHook) Fire(e *logrus.Entry) error {
	channel := h.channel
	keys := make([]string, 0, len(e.Data))
	for k, v := range e.Data {
		if k == ChannelField {
			if s, ok := v.(string); ok {
				channel = s
				continue
			}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	context := make(core.Map, 0, len(keys))
	for _, k := range keys {
		context = append(context, core.F(k, e.Data[k]))
	}

	var extra core.Map
	if e.HasCaller() {
		extra = core.Map{
			core.F("file", e.Caller.File),
			core.F("line", e.Caller.Line),
			core.F("function", e.Caller.Function),
		}
	}

	return h.handler.Handle(core.Record{
		Time:    e.Time,
		Channel: channel,
		Level:   logrusLevelToCore(e.Level),
		Message: e.Message,
		Context: context,
		Extra:   extra,
	})
}

// logrusLevelToCore converts a logrus.Level to a core.Level.
func logrusLevelToCore(level logrus.Level) core.Level {
	switch level {
	case logrus.PanicLevel:
		return core.EmergencyLevel
	case logrus.FatalLevel:
		return core.AlertLevel
	case logrus.ErrorLevel:
		return core.ErrorLevel
	case logrus.WarnLevel:
		return core.WarningLevel
	case logrus.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
