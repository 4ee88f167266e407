// Package logger provides structured logging for the todo API.
//
// It builds JSON loggers on log/slog and carries request-scoped loggers
// through context.Context so that every layer logs with the same trace ID.
package logger
