// Package diaglog writes leveled diagnostic logs to a persistent file.
// Best-effort subsystems (firewall hardening, autostart cleanup) report
// their swallowed failures here instead of returning errors.
package diaglog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level controls diagnostic log verbosity.
type Level int

const (
	// LevelDebug emits all diagnostic entries.
	LevelDebug Level = iota
	// LevelInfo emits info, warn, error.
	LevelInfo
	// LevelWarn emits warn, error.
	LevelWarn
	// LevelError emits only errors.
	LevelError
)

// Logger appends timestamped entries to a log file. A Logger constructed
// with an empty path discards everything, which is what tests use.
type Logger struct {
	path  string
	mu    sync.Mutex
	level Level
	file  *os.File
}

// New creates a logger writing to path. An empty path disables output.
func New(path string) *Logger {
	return &Logger{
		path:  strings.TrimSpace(path),
		level: LevelInfo,
	}
}

// SetLevel updates the verbosity from its textual form ("debug", "info",
// "warn", "error"). Unknown values fall back to info.
func (l *Logger) SetLevel(raw string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = parseLevel(raw)
}

// Close closes the log file descriptor.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, "DEBUG", format, args...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, "INFO", format, args...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, "WARN", format, args...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, "ERROR", format, args...)
}

func (l *Logger) logf(level Level, label string, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" || level < l.level {
		return
	}
	if err := l.ensureFileLocked(); err != nil {
		return
	}
	line := fmt.Sprintf(
		"%s [%s] %s\n",
		time.Now().UTC().Format(time.RFC3339),
		label,
		fmt.Sprintf(format, args...),
	)
	_, _ = l.file.WriteString(line)
}

func (l *Logger) ensureFileLocked() error {
	if l.file != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

func parseLevel(raw string) Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
