package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
		ok       bool
	}{
		{"debug", LogLevelDebug, true},
		{"DEBUG", LogLevelDebug, true},
		{"info", LogLevelInfo, true},
		{"warn", LogLevelWarn, true},
		{"warning", LogLevelWarn, true},
		{"Error", LogLevelError, true},
		{"verbose", LogLevelInfo, false},
		{"", LogLevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLogLevel(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseLogLevel(%q) = %v, %v; expected %v, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelDebug,
		Output: &buf,
		Prefix: "test",
	})

	logger.Debug("debug message")
	logger.Info("info %d", 2)
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"[DEBUG]", "[INFO]", "info 2", "[WARN]", "[ERROR]", "test:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output %q", want, output)
		}
	}
	if lines := strings.Count(output, "\n"); lines != 4 {
		t.Errorf("got %d lines, expected 4", lines)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelWarn,
		Output: &buf,
	})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	output := buf.String()
	if strings.Contains(output, "debug") || strings.Contains(output, "info") {
		t.Errorf("unexpected low-level messages in %q", output)
	}
	if !strings.Contains(output, "warn") || !strings.Contains(output, "error") {
		t.Errorf("missing messages in %q", output)
	}
	if logger.Enabled(LogLevelInfo) {
		t.Error("Enabled(info) = true at warn level")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	base.WithComponent("reveal").WithField("doc", "notes.md").Info("revealed")
	base.Info("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, expected 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "revealed {component=reveal, doc=notes.md}") {
		t.Errorf("line = %q, expected sorted fields", lines[0])
	}
	if strings.Contains(lines[1], "{") {
		t.Errorf("parent logger gained fields: %q", lines[1])
	}
}

func TestNullLogger(t *testing.T) {
	if NullLogger.Enabled(LogLevelError) {
		t.Error("NullLogger enabled")
	}
	NullLogger.WithComponent("x").Error("dropped")
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peekmark.log")
	logger, closer, err := OpenLogFile(path, LogLevelInfo)
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	logger.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "peekmark: hello") {
		t.Errorf("log file = %q", data)
	}

	if _, _, err := OpenLogFile(filepath.Join(t.TempDir(), "missing", "x.log"), LogLevelInfo); err == nil {
		t.Error("OpenLogFile() in missing directory succeeded")
	}
}
