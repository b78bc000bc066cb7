// Package logging builds the diagnostic logger. Logs go to a file, never to
// stdout, which carries the interactive protocol.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smileynet/contactbook/internal/config"
)

// DefaultPath returns the log file location under the XDG state directory.
func DefaultPath() (string, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("logging: resolving home directory: %w", err)
		}
		stateDir = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(stateDir, "contactbook", "contactbook.log"), nil
}

// ParseLevel maps a config level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", name)
	}
}

// New opens the log file named by cfg (or DefaultPath) and returns a JSON
// logger writing to it, plus a func that closes the file.
// The returned logger is always usable: on error it discards output.
func New(cfg config.Log) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return Discard(), noClose, err
	}

	path := cfg.File
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return Discard(), noClose, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return Discard(), noClose, fmt.Errorf("logging: creating directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return Discard(), noClose, fmt.Errorf("logging: opening %s: %w", path, err)
	}

	return newLogger(f, level), f.Close, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return newLogger(io.Discard, slog.LevelError+1)
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func noClose() error { return nil }

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
