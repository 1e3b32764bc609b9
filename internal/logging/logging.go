// Package logging builds the phuslu/log loggers used across tdulog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

const (
	timeFormat     = "15:04:05"
	maxFileSize    = 10 * 1024 * 1024
	maxFileBackups = 3
)

// Options select where log entries go.
type Options struct {
	Level string // debug, info, warn, error; empty means info
	File  string // log file; empty writes to Stderr
	// Stderr is used when File is empty. Nil means os.Stderr.
	Stderr io.Writer
}

// New returns a logger for opts. The TUI owns the terminal, so it always
// passes a File; headless commands log to stderr.
func New(opts Options) (*log.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	logger := &log.Logger{
		Level:      level,
		TimeFormat: timeFormat,
	}

	if file := strings.TrimSpace(opts.File); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		logger.Writer = &log.FileWriter{
			Filename:   file,
			MaxSize:    maxFileSize,
			MaxBackups: maxFileBackups,
			LocalTime:  true,
		}
		return logger, nil
	}

	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	logger.Writer = &log.ConsoleWriter{Writer: w}
	return logger, nil
}

// ParseLevel maps a config level name to a log level. Empty means info and
// "warning" is accepted for warn; unknown names are an error.
func ParseLevel(raw string) (log.Level, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "":
		return log.InfoLevel, nil
	case "warning":
		name = "warn"
	}
	switch name {
	case "trace", "debug", "info", "warn", "error":
		return log.ParseLevel(name), nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level %q", raw)
	}
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return &log.Logger{Level: log.ErrorLevel, Writer: &log.IOWriter{Writer: io.Discard}}
}

// Close releases file handles held by logger's writer.
func Close(logger *log.Logger) error {
	if logger == nil {
		return nil
	}
	if closer, ok := logger.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
