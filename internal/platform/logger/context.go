package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

// loggerKey is the context key under which the request-scoped logger is stored.
var loggerKey = contextKey{}

// WithLogger returns a new context with the given logger attached.
// Handlers and middleware use this to propagate request-scoped loggers
// (e.g., carrying a trace ID) down to services and stores.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext retrieves the logger from the context.
// If no logger is attached, the process-wide default logger is returned.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger from the context, falling back
// to the provided default rather than the process-wide default.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
