// Package logging defines the structured-logging interface shared by the
// vault client, the sandbox server and the CLI. The default implementation
// wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Debug(ctx, "vault request", "method", "GET", "status", 200)
type Logger interface {
	// Debug logs per-request detail such as the URL and response status of
	// each vault exchange.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs lifecycle events: sandbox start, seeding, shutdown.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs recoverable conditions, such as an injected sandbox failure.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures that end a request or a command.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
