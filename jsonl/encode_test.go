package jsonl

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/formatter"
)

var encodeTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestEncoder_Format(t *testing.T) {
	line, err := NewEncoder().Format(core.Record{
		Time:    encodeTime,
		Channel: "app",
		Level:   core.WarningLevel,
		Message: "say \"hi\"\n",
		Context: core.Map{core.F("n", 1), core.F("f", 2.0)},
	})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `{"message":"say \"hi\"\n","context":{"n":1,"f":2.0},"level":300,"level_name":"WARNING","channel":"app","datetime":"2024-03-01T10:00:00.000000+00:00","extra":[]}` + "\n"
	if string(line) != want {
		t.Errorf("Format() =\n%s\nwant\n%s", line, want)
	}
}

func TestEncoder_DisplayFlag(t *testing.T) {
	line, _ := NewEncoder().Format(core.Record{Display: core.DisplayHidden})
	if !strings.Contains(string(line), `"extra":{"display_log_info":false}`) {
		t.Errorf("Format() = %s, want display_log_info false in extra", line)
	}
	r := decodeOne(t, string(line))
	if r.ShowInfo() {
		t.Error("decoded record shows its header")
	}
}

func TestEncoder_EmptyBatch(t *testing.T) {
	e := NewEncoder()
	if out := e.FormatBatch(nil); out != "" {
		t.Errorf("FormatBatch(nil) = %q", out)
	}
	var buf bytes.Buffer
	if n, err := e.FormatBatchTo(nil, &buf); n != 0 || err != nil {
		t.Errorf("FormatBatchTo(nil) = %d, %v", n, err)
	}
}

func TestEncoder_Exception(t *testing.T) {
	th := &core.Throwable{
		Class:    "*errors.errorString",
		Message:  "boom",
		File:     "/srv/a.go",
		Line:     3,
		Trace:    []core.Frame{{File: "/srv/b.go", Line: 9}},
		Previous: &core.Throwable{Class: "x", Message: "cause", File: "/srv/c.go", Line: 1},
	}
	line, _ := NewEncoder().Format(core.Record{Context: core.Map{{Key: core.NamedKey("exception"), Value: core.ThrowableValue(th)}}})

	r := decodeOne(t, string(line))
	v, _ := r.Context.Get("exception")
	if v.Type != core.ErrorType {
		t.Fatalf("exception type = %v", v.Type)
	}
	if v.Err.Message != "boom" || v.Err.Line != 3 || len(v.Err.Trace) != 1 || v.Err.Previous.Message != "cause" {
		t.Errorf("decoded exception = %+v", v.Err)
	}
}

// batches survive the trip through JSON lines unchanged in their rendering
func TestEncoder_RoundTrip(t *testing.T) {
	batches := [][]core.Record{
		{
			{Time: encodeTime, Channel: "request", Level: core.InfoLevel, Message: `Matched route "{route}".`,
				Context: core.Map{core.F("route", "home"), core.F("method", "GET"), core.F("request_uri", "/")},
				Extra:   core.Map{core.F("uid", "u1")}},
			{Time: encodeTime, Channel: "doctrine", Level: core.DebugLevel, Message: "SELECT * FROM t WHERE a = ?",
				Context: core.ListMap(core.IntValue(1), core.FloatValue(0.5)),
				Extra:   core.Map{core.F("uid", "u1")}},
			{Time: encodeTime, Channel: "app", Level: core.ErrorLevel, Message: "hidden", Display: core.DisplayHidden,
				Context: core.Map{core.F("ok", false), core.F("tags", []string{"a", "b"})}},
		},
		{
			{Time: encodeTime.Add(time.Second), Channel: "security", Level: core.WarningLevel, Message: "denied"},
		},
	}

	enc := NewEncoder()
	var buf bytes.Buffer
	for _, b := range batches {
		if _, err := enc.FormatBatchTo(b, &buf); err != nil {
			t.Fatalf("FormatBatchTo() error = %v", err)
		}
	}

	f := formatter.NewEasyLogFormatter(formatter.Config{MaxLineLength: 60, PrefixLength: 2, LineEnding: "\n"})
	r := NewReader(&buf, "")
	for i := 0; ; i++ {
		decoded, err := r.Next()
		if errors.Is(err, io.EOF) {
			if i != len(batches) {
				t.Errorf("read %d batches, want %d", i, len(batches))
			}
			return
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if i >= len(batches) {
			t.Fatalf("read more than %d batches", len(batches))
		}
		if got, want := f.FormatBatch(decoded), f.FormatBatch(batches[i]); got != want {
			t.Errorf("batch %d renders as\n%s\nwant\n%s", i, got, want)
		}
	}
}

func BenchmarkEncoder_FormatBatch(b *testing.B) {
	enc := NewEncoder()
	records := []core.Record{
		{Time: encodeTime, Channel: "app", Level: core.InfoLevel, Message: "hello {name}", Context: core.Map{core.F("name", "x")}},
		{Time: encodeTime, Channel: "doctrine", Message: "SELECT 1", Context: core.ListMap(core.IntValue(1))},
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = enc.FormatBatch(records)
	}
}
