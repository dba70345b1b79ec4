package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func fixedClock(l *StreamLogger) {
	l.sink.now = func() time.Time {
		return time.Unix(1700000000, 123456000)
	}
}

func TestStreamLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, DebugLevel)
	fixedClock(logger)

	logger.Warn(context.Background(), "skipping entry", Fields{"path": "a/b.txt", "error": "permission denied"})

	want := "[WARN] 1700000000.123456 skipping entry error=permission denied path=a/b.txt\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestStreamLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatJSON, InfoLevel)

	logger.Error(context.Background(), "hash failed", errors.New("boom"), Fields{"path": "x"})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["level"] != "ERROR" {
		t.Errorf("level = %v, want ERROR", entry["level"])
	}
	if entry["message"] != "hash failed" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want boom", entry["error"])
	}
	if entry["path"] != "x" {
		t.Errorf("path = %v, want x", entry["path"])
	}
}

func TestStreamLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, WarnLevel)
	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Error("messages below the level should be filtered")
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Error("messages at or above the level should be written")
	}
}

func TestStreamLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)

	child := logger.WithFields(Fields{"root": "/a"})
	child.Info(context.Background(), "listing", Fields{"count": 3})
	logger.Info(context.Background(), "parent", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "listing count=3 root=/a") {
		t.Errorf("child line = %q", lines[0])
	}
	if strings.Contains(lines[1], "root=") {
		t.Error("parent logger should not inherit child fields")
	}
}

func TestNew_FileDestination(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := New(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	logger.Info(context.Background(), "hello", nil)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "[INFO]") || !strings.Contains(string(data), "hello") {
		t.Errorf("log file content = %q", string(data))
	}

	// Writes after close are discarded
	logger.Info(context.Background(), "after close", nil)
}

func TestNew_FileWithoutPath(t *testing.T) {
	if _, err := New(Config{Destination: DestinationFile}); err == nil {
		t.Error("New() should fail without a path for file destination")
	}
}

func TestStreamLogger_Rotation(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "rotate.log")

	logger, err := New(Config{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100,
		MaxBackups: 2,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer logger.Close()

	for i := 0; i < 20; i++ {
		logger.Info(context.Background(), "a message long enough to trigger rotation quickly", nil)
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Errorf("expected rotated file %s.1: %v", logPath, err)
	}
	if _, err := os.Stat(logPath + ".3"); err == nil {
		t.Error("backups beyond MaxBackups should be removed")
	}
}

func TestStreamLogger_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, FormatText, InfoLevel)
	child := logger.WithFields(Fields{"worker": true})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			logger.Info(context.Background(), "parent", nil)
		}()
		go func() {
			defer wg.Done()
			child.Info(context.Background(), "child", nil)
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 20 {
		t.Errorf("got %d lines, want 20", got)
	}
}

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "x", nil)
	logger.Info(ctx, "x", nil)
	logger.Warn(ctx, "x", nil)
	logger.Error(ctx, "x", errors.New("e"), nil)

	if logger.WithFields(Fields{"a": 1}) != logger {
		t.Error("WithFields should return the same null logger")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if _, ok := OrNull(nil).(*NullLogger); !ok {
		t.Error("OrNull(nil) should return a NullLogger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if LevelString(WarnLevel) != "WARN" {
		t.Errorf("LevelString(WarnLevel) = %s", LevelString(WarnLevel))
	}
	if LevelString(Level(42)) != "UNKNOWN" {
		t.Errorf("LevelString(42) = %s", LevelString(Level(42)))
	}
}
