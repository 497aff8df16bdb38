package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings to ensure consistency.
const (
	FieldRunID      = "run_id"
	FieldComponent  = "component"
	FieldSource     = "source"
	FieldFile       = "file"
	FieldBlock      = "block"
	FieldGuard      = "guard"
	FieldCommand    = "command"
	FieldTier       = "tier"
	FieldCount      = "count"
	FieldVersions   = "versions"
	FieldExtensions = "extensions"
	FieldGroups     = "groups"
	FieldMerged     = "merged"
	FieldLines      = "lines"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)

type contextKey string

const runIDKey contextKey = "logger_run_id"

// WithRunID adds a generation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID returns the run ID stored in ctx, or "".
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// LoggerFromContext returns a logger that carries the run ID from ctx, if any.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	if id := RunID(ctx); id != "" {
		return Logger.With(FieldRunID, id)
	}
	return Logger
}

// ComponentLogger returns a named logger for a specific component.
//
// Example:
//
//	log := logger.ComponentLogger("registry.fetch")
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
