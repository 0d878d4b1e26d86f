package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type staticVerbose bool

func (s staticVerbose) IsVerbose() bool { return bool(s) }

func TestVerboseGating(t *testing.T) {
	tests := []struct {
		name     string
		verbose  bool
		expected int
	}{
		{name: "quiet drops debug and info", verbose: false, expected: 2},
		{name: "verbose keeps everything", verbose: true, expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			l := NewWithCore("loader", staticVerbose(tt.verbose), core)

			l.Debug("debug %d", 1)
			l.Info("info")
			l.Warn("warn")
			l.Error("error")

			if got := logs.Len(); got != tt.expected {
				t.Errorf("Expected %d entries, got %d", tt.expected, got)
			}
		})
	}
}

func TestFieldsAndComponent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore("web", staticVerbose(true), core)

	l.WithComponent("watcher").InfoWithFields("reloaded %s", []Field{Count(36), F("path", "data"), Error(errors.New("boom"))}, "dataset")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "watcher" {
		t.Errorf("Expected logger name watcher, got %q", entry.LoggerName)
	}
	if entry.Message != "reloaded dataset" {
		t.Errorf("Expected formatted message, got %q", entry.Message)
	}
	ctx := entry.ContextMap()
	if ctx["count"] != int64(36) {
		t.Errorf("Expected count=36, got %v", ctx["count"])
	}
	if ctx["error"] != "boom" {
		t.Errorf("Expected error=boom, got %v", ctx["error"])
	}
}

func TestWriterOutputIsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter("", nil, &buf)
	l.Warn("low disk")

	line := strings.TrimSpace(buf.String())
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", line, err)
	}
	if decoded["logger"] != "main" {
		t.Errorf("Expected default component main, got %v", decoded["logger"])
	}
	if decoded["msg"] != "low disk" {
		t.Errorf("Expected msg low disk, got %v", decoded["msg"])
	}
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	l.Error("ignored")
	var nilLogger *Logger
	nilLogger.Warn("also ignored")
}
