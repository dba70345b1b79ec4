package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Destination selects where log lines go
type Destination string

const (
	DestinationStderr Destination = "stderr"
	DestinationStdout Destination = "stdout"
	DestinationFile   Destination = "file"
)

// Config holds configuration for a StreamLogger
type Config struct {
	// Destination is stderr, stdout or file. A non-empty Path implies file.
	Destination Destination
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum file size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
}

// sink is the shared output of a logger and all loggers derived from it
type sink struct {
	mu          sync.Mutex
	config      Config
	file        *os.File
	writer      io.Writer
	currentSize int64
	now         func() time.Time
}

// StreamLogger implements Logger over a console stream or a rotating file
type StreamLogger struct {
	sink   *sink
	fields Fields
}

// New creates a logger from config
func New(config Config) (*StreamLogger, error) {
	if config.Path != "" {
		config.Destination = DestinationFile
	}

	s := &sink{config: config, now: time.Now}

	switch config.Destination {
	case DestinationFile:
		if config.Path == "" {
			return nil, fmt.Errorf("log destination is file but no path is set")
		}
		if err := s.openFile(); err != nil {
			return nil, err
		}
	case DestinationStdout:
		s.writer = os.Stdout
	default:
		s.writer = os.Stderr
	}

	return &StreamLogger{sink: s}, nil
}

// NewWriterLogger creates a logger writing to w, without rotation
func NewWriterLogger(w io.Writer, format Format, level Level) *StreamLogger {
	return &StreamLogger{sink: &sink{
		config: Config{Format: format, Level: level},
		writer: w,
		now:    time.Now,
	}}
}

func (s *sink) openFile() error {
	// Ensure directory exists
	dir := filepath.Dir(s.config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(s.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	s.file = file
	s.writer = file
	s.currentSize = info.Size()
	return nil
}

// Debug logs a debug message
func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields sharing the same output
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{sink: l.sink, fields: merge(l.fields, fields)}
}

// Close closes the log file, if any. Console streams are left open.
func (l *StreamLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file != nil {
		err := l.sink.file.Close()
		l.sink.file = nil
		l.sink.writer = io.Discard
		return err
	}
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	s := l.sink
	if level < s.config.Level {
		return
	}

	all := merge(l.fields, fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check rotation before writing
	if s.file != nil && s.config.MaxSize > 0 && s.currentSize >= s.config.MaxSize {
		s.rotate()
	}

	var line []byte
	if s.config.Format == FormatJSON {
		var jsonErr error
		line, jsonErr = formatJSON(s.now(), level, msg, err, all)
		if jsonErr != nil {
			return
		}
	} else {
		line = formatText(s.now(), level, msg, err, all)
	}

	n, _ := s.writer.Write(line)
	s.currentSize += int64(n)
}

func merge(base, extra Fields) Fields {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(Fields, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// formatJSON formats a log entry as one JSON object
func formatJSON(now time.Time, level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := map[string]interface{}{
		"timestamp": now.UTC().Format(time.RFC3339Nano),
		"level":     levelString(level),
		"message":   msg,
	}

	if err != nil {
		entry["error"] = err.Error()
	}

	for k, v := range fields {
		entry[k] = v
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}

	return append(data, '\n'), nil
}

// formatText formats a log entry as "[LEVEL] secs.micros message key=value..."
// with keys sorted
func formatText(now time.Time, level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %d.%06d %s", levelString(level), now.Unix(), now.Nanosecond()/1000, msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// rotate rotates the log file
func (s *sink) rotate() {
	s.file.Close()

	// Rotate existing backups
	for i := s.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", s.config.Path, i)
		newPath := fmt.Sprintf("%s.%d", s.config.Path, i+1)
		os.Rename(oldPath, newPath)
	}

	// Rename current to .1
	os.Rename(s.config.Path, s.config.Path+".1")

	// Remove oldest if exceeds max backups
	if s.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", s.config.Path, s.config.MaxBackups+1))
	}

	if err := s.openFile(); err != nil {
		s.file = nil
		s.writer = io.Discard
	}
	s.currentSize = 0
}
