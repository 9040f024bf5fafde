package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type for context keys defined by this package.
type contextKey int

// loggerKey is the context key under which a request-scoped logger is stored.
const loggerKey contextKey = iota

// WithLogger returns a new context carrying the given logger.
// Middleware uses this to attach a request-scoped logger (with trace ID and
// request attributes) that downstream components retrieve via FromContext.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in the context, or slog.Default()
// if the context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault returns the logger stored in the context, or the
// provided fallback if the context carries none. Components pass their own
// component-scoped logger as the fallback.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
