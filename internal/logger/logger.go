// Package logger provides a small leveled logger that writes to a file so
// log output never interferes with the terminal UI.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogLevel is the minimum severity that will be written.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// String returns the lowercase name of the level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string log level to a LogLevel.
// Unknown values fall back to LevelWarning.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warning", "warn":
		return LevelWarning
	case "error":
		return LevelError
	default:
		return LevelWarning
	}
}

var (
	mu     sync.Mutex
	out    = log.New(io.Discard, "", 0)
	file   *os.File
	minLvl = LevelWarning
)

// Init opens the log file at path and sets the minimum level.
// An empty path discards all output.
func Init(path string, level LogLevel) error {
	mu.Lock()
	defer mu.Unlock()
	return openLocked(path, level)
}

// Reinit closes the current log file and opens a new one.
func Reinit(path string, level LogLevel) error {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	return openLocked(path, level)
}

// SetOutput redirects log output to w. Used by tests.
func SetOutput(w io.Writer, level LogLevel) {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
	out = log.New(w, "", log.LstdFlags|log.Lmicroseconds)
	minLvl = level
}

// Close releases the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func openLocked(path string, level LogLevel) error {
	minLvl = level
	if path == "" {
		out = log.New(io.Discard, "", 0)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open log file %s: %w", path, err)
	}
	file = f
	out = log.New(f, "", log.LstdFlags|log.Lmicroseconds)
	return nil
}

func closeLocked() {
	if file != nil {
		_ = file.Close()
		file = nil
	}
	out = log.New(io.Discard, "", 0)
}

func write(level LogLevel, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()
	if level < minLvl {
		return
	}
	out.Printf("[%s] %s", strings.ToUpper(level.String()), fmt.Sprintf(format, args...))
}

// Debug logs a debug message.
func Debug(format string, args ...interface{}) {
	write(LevelDebug, format, args...)
}

// Info logs an informational message.
func Info(format string, args ...interface{}) {
	write(LevelInfo, format, args...)
}

// Warning logs a warning message.
func Warning(format string, args ...interface{}) {
	write(LevelWarning, format, args...)
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	write(LevelError, format, args...)
}

// ErrorWithErr logs an error message followed by the error itself.
func ErrorWithErr(err error, format string, args ...interface{}) {
	write(LevelError, "%s error=%v", fmt.Sprintf(format, args...), err)
}
