// Package logging builds the JSON slog logger skypane writes to its log file.
// The terminal belongs to the UI, so nothing is logged to stdout or stderr
// while the display runs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger wraps a slog.Logger whose level can be switched at runtime.
type Logger struct {
	*slog.Logger
	level  *slog.LevelVar
	closer io.Closer
}

// New returns a Logger writing JSON records to w.
func New(w io.Writer, debug bool) *Logger {
	level := new(slog.LevelVar)
	l := &Logger{level: level}
	l.Logger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	l.SetDebug(debug)
	return l
}

// Open appends to the log file at path, creating parent directories.
func Open(path string, debug bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := New(file, debug)
	l.closer = file
	return l, nil
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler), level: new(slog.LevelVar)}
}

// SetDebug switches between DEBUG and INFO.
func (l *Logger) SetDebug(on bool) {
	if on {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

// Debugging reports whether DEBUG records are emitted.
func (l *Logger) Debugging() bool {
	return l.level.Level() <= slog.LevelDebug
}

// Close closes the underlying file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
