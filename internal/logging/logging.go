// Package logging builds the structured logger used by the CLI and bridges it
// to the printf-style progress hook the pipeline accepts.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels.
// Anything else is treated as info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// NewLogger creates a text logger writing to w. Source locations are added
// at debug level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

func WithRunID(logger *slog.Logger, runID string) *slog.Logger {
	return logger.With("run_id", runID)
}

// Logf adapts logger to a printf-style hook. Messages are logged at info.
func Logf(logger *slog.Logger) func(format string, args ...any) {
	return func(format string, args ...any) {
		if !logger.Enabled(context.Background(), slog.LevelInfo) {
			return
		}
		logger.Info(fmt.Sprintf(format, args...))
	}
}
