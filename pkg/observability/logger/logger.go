package logger

import (
	"context"
)

// Logger is the structured logging interface used across the service.
// Every method takes a message followed by alternating key-value pairs.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info-level message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning-level message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error-level message with optional key-value pairs
	Error(msg string, args ...any)

	// With creates a child logger whose entries always carry the given
	// key-value pairs
	With(args ...any) Logger

	// WithContext creates a child logger that carries the request ID
	// found in ctx, if any
	WithContext(ctx context.Context) Logger
}
