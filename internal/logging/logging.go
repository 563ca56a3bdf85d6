// Package logging provides the structured logging free functions shared by
// every core package, mirroring the teacher's own Debugf/Infof/Errorf
// convention but backed by log/slog.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

// SetLevel adjusts the minimum level emitted. Used by cmd/dfsync's -v flag.
func SetLevel(level slog.Level) {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// Debugf logs a debug-level message about subject (typically a location
// string or a *table.FileInfo-like Stringer).
func Debugf(subject any, format string, args ...any) {
	logger.Debug(prefix(subject, format, args...))
}

// Infof logs an info-level message about subject.
func Infof(subject any, format string, args ...any) {
	logger.Info(prefix(subject, format, args...))
}

// Errorf logs an error-level message about subject.
func Errorf(subject any, format string, args ...any) {
	logger.Error(prefix(subject, format, args...))
}

// Log is the context-carrying variant, matching the teacher's fs.Log
// signature for call sites that already have a context.Context handy.
func Log(ctx context.Context, level slog.Level, subject any, format string, args ...any) {
	logger.Log(ctx, level, prefix(subject, format, args...))
}

func prefix(subject any, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if subject == nil {
		return msg
	}
	return fmt.Sprintf("%v: %s", subject, msg)
}
