// Package logger configures the application's structured logging and
// provides helpers for carrying a request-scoped *slog.Logger through
// context.Context.
package logger
