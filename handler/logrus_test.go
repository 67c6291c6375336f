package handler

import (
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/philipp01105/easylog/core"
)

func newLogrus(h Handler, level core.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.TraceLevel)
	l.AddHook(NewLogrusHook(h, "app", level))
	return l
}

func TestLogrusHook_Fire(t *testing.T) {
	rec := &recorder{}
	l := newLogrus(rec, core.InfoLevel)

	l.Debug("hidden")
	l.WithFields(logrus.Fields{"b": 2, "a": "x"}).WithError(errors.New("boom")).Error("failed")

	if len(rec.records) != 1 {
		t.Fatalf("got %d records, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.Channel != "app" || r.Level != core.ErrorLevel || r.Message != "failed" {
		t.Errorf("record = %+v", r)
	}
	var keys string
	for _, f := range r.Context {
		keys += f.Key.String()
	}
	if keys != "aberror" {
		t.Errorf("context keys = %q, want sorted a b error", keys)
	}
	if v, _ := r.Context.Get(logrus.ErrorKey); v.Type != core.ErrorType {
		t.Errorf("error field = %v (%v)", v, v.Type)
	}
}

func TestLogrusHook_ChannelField(t *testing.T) {
	rec := &recorder{}
	l := newLogrus(rec, core.DebugLevel)
	l.WithField(ChannelField, "doctrine").Info("SELECT 1")

	r := rec.records[0]
	if r.Channel != "doctrine" || r.Context.Has(ChannelField) {
		t.Errorf("record = %+v", r)
	}
}

func TestLogrusHook_Levels(t *testing.T) {
	h := NewLogrusHook(&recorder{}, "app", core.ErrorLevel)
	levels := h.Levels()
	if len(levels) != 3 {
		t.Errorf("Levels() = %v, want panic, fatal and error", levels)
	}
}
