// Package logging opens the append-only diagnostic log of a run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// TimeFormat is the timestamp layout of every log line.
const TimeFormat = "2006-01-02 15:04:05"

// Handle owns the log file and the logger writing to it.
type Handle struct {
	Logger *log.Logger
	RunID  string
	Path   string
	file   *os.File
}

// Open appends to the log file at path, creating it and its parent directory
// when needed. Every line carries the run_id of this invocation.
func Open(path, level string) (*Handle, error) {
	if path == "" {
		return nil, fmt.Errorf("log file path is empty")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	runID := uuid.NewString()
	return &Handle{
		Logger: New(file, level).With("run_id", runID),
		RunID:  runID,
		Path:   path,
		file:   file,
	}, nil
}

// Close flushes and closes the log file.
func (h *Handle) Close() error {
	if h == nil || h.file == nil {
		return nil
	}
	if err := h.file.Sync(); err != nil {
		_ = h.file.Close()
		return fmt.Errorf("sync log file: %w", err)
	}
	return h.file.Close()
}

// New returns a logfmt logger writing to w.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       log.LogfmtFormatter,
		ReportTimestamp: true,
		TimeFormat:      TimeFormat,
		Prefix:          "task-reports",
	})
}

// ParseLevel parses a string log level. Unknown values fall back to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
