// Package logging provides leveled operational logging and a structured
// game event log for war-arena. Both are log/slog based:
//   - NewLogger builds the stderr logger for operational output
//   - EventLogger is an event router handler writing one record per game event
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelTrace is a custom slog level below Debug for per-cycle detail
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level
// Supported values: "info", "debug", "trace", "warn", "error" (case-insensitive)
// Unknown values default to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a known level
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "", "info", "debug", "trace", "warn", "error":
		return true
	}
	return false
}

func replaceLevel(_ []string, a slog.Attr) slog.Attr {
	// Label the custom trace level
	if a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
			a.Value = slog.StringValue("TRACE")
		}
	}
	return a
}

// NewLogger creates a leveled text slog.Logger writing to w
func NewLogger(level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       ParseLevel(level),
		ReplaceAttr: replaceLevel,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewJSONLogger creates a JSON lines logger writing every record at or above trace to w
func NewJSONLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       LevelTrace,
		ReplaceAttr: replaceLevel,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
