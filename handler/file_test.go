package handler

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/easylog/core"
	"github.com/philipp01105/easylog/formatter"
	"github.com/philipp01105/easylog/jsonl"
)

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	return string(data)
}

func backups(t *testing.T, name string) []string {
	t.Helper()
	matches, err := filepath.Glob(name + ".*")
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, m := range matches {
		if _, ok := backupTime(filepath.Base(name), filepath.Base(m)); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestFileHandler_AppendsBatches(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "var", "log", "dev-readable.log")
	h, err := NewFileHandler(FileConfig{Filename: filename, Formatter: newTestFormatter()})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}

	_ = h.HandleBatch([]core.Record{record(core.InfoLevel, "first")})
	_ = h.HandleBatch([]core.Record{record(core.InfoLevel, "second")})
	if err := h.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	content := readFile(t, filename)
	if strings.Count(content, "01/Mar/2024 10:00:00") != 2 {
		t.Errorf("expected two batch titles:\n%s", content)
	}
	if strings.Index(content, "first") > strings.Index(content, "second") {
		t.Error("batches are out of order")
	}
	if _, err := os.Stat(filename + lockSuffix); err != nil {
		t.Errorf("lock file missing: %v", err)
	}
	if s := h.Stats(); s.BatchesTotal != 2 || s.ProcessedTotal != 2 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestFileHandler_FilteredBatchWritesNothing(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dev.log")
	h, err := NewFileHandler(FileConfig{Filename: filename, Formatter: newTestFormatter(), Level: core.ErrorLevel})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}
	defer h.Close()

	_ = h.HandleBatch([]core.Record{record(core.DebugLevel, "a"), record(core.WarningLevel, "b")})
	_ = h.HandleBatch(nil)

	if content := readFile(t, filename); content != "" {
		t.Errorf("file content = %q, want empty", content)
	}
}

func TestFileHandler_KeepsRecordOrderAfterFiltering(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dev.log")
	h, err := NewFileHandler(FileConfig{Filename: filename, Formatter: newTestFormatter(), Level: core.InfoLevel})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}

	_ = h.HandleBatch([]core.Record{
		record(core.InfoLevel, "one"),
		record(core.DebugLevel, "skipped"),
		record(core.ErrorLevel, "two"),
	})
	_ = h.Close()

	content := readFile(t, filename)
	if strings.Contains(content, "skipped") {
		t.Error("debug record was written")
	}
	if i, j := strings.Index(content, "one"), strings.Index(content, "two"); i < 0 || j < i {
		t.Errorf("unexpected content:\n%s", content)
	}
}

func TestFileHandler_Rotation(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dev.log")
	obs, logs := observer.New(zapcore.DebugLevel)
	h, err := NewFileHandler(FileConfig{
		Filename:   filename,
		Formatter:  newTestFormatter(),
		MaxSize:    1,
		MaxBackups: 1,
		Logger:     zap.New(obs),
	})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}

	for _, msg := range []string{"batch-1", "batch-2", "batch-3"} {
		if err := h.HandleBatch([]core.Record{record(core.InfoLevel, msg)}); err != nil {
			t.Fatalf("HandleBatch() error = %v", err)
		}
	}
	_ = h.Close()

	content := readFile(t, filename)
	if !strings.Contains(content, "batch-3") || strings.Contains(content, "batch-2") {
		t.Errorf("current file content:\n%s", content)
	}
	if got := backups(t, filename); len(got) != 1 {
		t.Errorf("backups = %v, want exactly one", got)
	}
	if _, err := os.Stat(filename + lockSuffix); err != nil {
		t.Errorf("cleanup removed the lock file: %v", err)
	}
	if n := logs.FilterMessage("log file rotated").Len(); n != 2 {
		t.Errorf("logged %d rotations, want 2", n)
	}
}

func TestFileHandler_CompressesBackups(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dev.log")
	h, err := NewFileHandler(FileConfig{
		Filename:  filename,
		Formatter: newTestFormatter(),
		MaxSize:   1,
		Compress:  true,
	})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}

	_ = h.HandleBatch([]core.Record{record(core.InfoLevel, "rotated away")})
	_ = h.HandleBatch([]core.Record{record(core.InfoLevel, "current")})
	_ = h.Close()

	got := backups(t, filename)
	if len(got) != 1 || !strings.HasSuffix(got[0], compressSuffix) {
		t.Fatalf("backups = %v, want one gzip file", got)
	}

	f, err := os.Open(got[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader() error = %v", err)
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !strings.Contains(string(data), "rotated away") {
		t.Errorf("backup content:\n%s", data)
	}
}

func TestFileHandler_HandlePanics(t *testing.T) {
	h, err := NewFileHandler(FileConfig{Filename: filepath.Join(t.TempDir(), "dev.log")})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}
	defer h.Close()

	defer func() {
		if r := recover(); r != formatter.ErrWrongConfiguration {
			t.Errorf("recover() = %v, want ErrWrongConfiguration", r)
		}
	}()
	_ = h.Handle(record(core.ErrorLevel, "single"))
}

func TestFileHandler_SingleRecordFormatter(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "dev.jsonl")
	h, err := NewFileHandler(FileConfig{Filename: filename, Formatter: jsonl.NewEncoder()})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}

	if err := h.Handle(record(core.InfoLevel, "single")); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	_ = h.Close()

	if content := readFile(t, filename); !strings.Contains(content, `"message":"single"`) {
		t.Errorf("file content = %q", content)
	}
}

func TestFileHandler_WriteAfterClose(t *testing.T) {
	h, err := NewFileHandler(FileConfig{Filename: filepath.Join(t.TempDir(), "dev.log"), Formatter: newTestFormatter()})
	if err != nil {
		t.Fatalf("NewFileHandler() error = %v", err)
	}
	_ = h.Close()

	if err := h.HandleBatch([]core.Record{record(core.InfoLevel, "late")}); err == nil {
		t.Error("HandleBatch() after Close() returned nil error")
	}
	if err := h.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestNewFileHandler_RequiresFilename(t *testing.T) {
	if _, err := NewFileHandler(FileConfig{}); err == nil {
		t.Error("NewFileHandler() without filename returned nil error")
	}
}

func TestBackupTime(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"dev.log.2024-03-01T10-00-00.000", true},
		{"dev.log.2024-03-01T10-00-00.000.gz", true},
		{"dev.log.lock", false},
		{"dev.log", false},
		{"other.log.2024-03-01T10-00-00.000", false},
	}
	for _, tt := range tests {
		at, ok := backupTime("dev.log", tt.name)
		if ok != tt.ok {
			t.Errorf("backupTime(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if ok && !at.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)) {
			t.Errorf("backupTime(%q) = %v", tt.name, at)
		}
	}
}
