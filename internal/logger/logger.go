// Package logger provides the process-wide structured logger.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger = newLogger(os.Getenv("ENVIRONMENT"), os.Getenv("LOG_LEVEL"))

// JSON in production, human-readable text everywhere else.
func newLogger(env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level, env)}
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func parseLevel(level, env string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "production" {
		return slog.LevelInfo
	}
	return slog.LevelDebug
}

// Configure replaces the default logger once config is loaded.
func Configure(env, level string) {
	defaultLogger = newLogger(env, level)
}

// Default returns the default logger instance.
func Default() *slog.Logger {
	return defaultLogger
}

// With creates a logger with additional context fields.
func With(args ...any) *slog.Logger {
	return defaultLogger.With(args...)
}

// FromContext returns the logger stored in ctx, or the default one.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

type loggerKey struct{}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// ErrorErr logs msg at error level with err attached.
func ErrorErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	defaultLogger.Error(msg, args...)
}

// Fatal logs and exits; for entry points only.
func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}

// FatalErr is Fatal with err attached.
func FatalErr(err error, msg string, args ...any) {
	args = append(args, "error", err)
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}
