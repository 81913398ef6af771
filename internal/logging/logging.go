// Package logging opens the append-only audit log and defines the field
// names every package logs with.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Canonical field keys.
const (
	KeyRunID    = "run_id"
	KeyProject  = "project"
	KeyTarget   = "target"
	KeySource   = "source"
	KeyArtifact = "artifact"
	KeyCommand  = "command"
	KeyExitCode = "exit_code"
	KeyDryRun   = "dry_run"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func RunID(id string) slog.Attr      { return slog.String(KeyRunID, id) }
func Project(name string) slog.Attr  { return slog.String(KeyProject, name) }
func Target(name string) slog.Attr   { return slog.String(KeyTarget, name) }
func Source(path string) slog.Attr   { return slog.String(KeySource, path) }
func Artifact(path string) slog.Attr { return slog.String(KeyArtifact, path) }
func Command(line string) slog.Attr  { return slog.String(KeyCommand, line) }
func ExitCode(code int) slog.Attr    { return slog.Int(KeyExitCode, code) }
func DryRun(v bool) slog.Attr        { return slog.Bool(KeyDryRun, v) }
func DurationMS(ms int64) slog.Attr  { return slog.Int64(KeyDuration, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Open returns a JSON logger appending to path, creating it and its
// directory as needed. The caller closes the returned closer.
func Open(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, level), f, nil
}

// New returns a JSON logger over w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
