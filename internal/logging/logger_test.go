package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"trace", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message leaked at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message missing")
	}
}

func TestNewLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)
	logger.Log(nil, LevelTrace, "tick detail")
	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("trace output missing TRACE label: %s", buf.String())
	}
}

func TestAnomalyLoggerInfoLevelDisabled(t *testing.T) {
	if al := NewAnomalyLogger(t.TempDir(), "info"); al != nil {
		t.Error("anomaly logger created at info level")
	}
}

func TestAnomalyLoggerWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	al := NewAnomalyLogger(dir, "debug")
	if al == nil {
		t.Fatal("anomaly logger not created at debug level")
	}
	al.Log(map[string]any{"kind": "nan_derivative", "metabolite": "atp"})
	al.Close()

	f, err := os.Open(filepath.Join(dir, "anomalies.jsonl"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("no lines written")
	}
	var entry map[string]any
	if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["kind"] != "nan_derivative" || entry["metabolite"] != "atp" {
		t.Errorf("entry = %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("time field missing")
	}
}

func TestAnomalyLoggerNilSafe(t *testing.T) {
	var al *AnomalyLogger
	al.Log(map[string]any{"kind": "noop"})
	al.Close()
}
