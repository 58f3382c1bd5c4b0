package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across the generator.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Run context
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Source graph
	FieldType     = "type"
	FieldIdentity = "identity"
	FieldMember   = "member"
	FieldRule     = "rule"

	// Clients
	FieldClient   = "client"
	FieldEndpoint = "endpoint"
	FieldTemplate = "template"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError   = "error"
	FieldAttempt = "attempt"

	// Counts
	FieldCount   = "count"
	FieldWritten = "written"
	FieldFailed  = "failed"
	FieldRemoved = "removed"

	// Files and paths
	FieldFile   = "file"
	FieldPath   = "path"
	FieldOutput = "output"
)

// Context keys for propagating logging context
type contextKey string

const (
	runIDKey     contextKey = "logger_run_id"
	componentKey contextKey = "logger_component"
)

// WithRunID adds a generation run ID to the context for logging
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, FieldRunID, runID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns a logger with fields extracted from context.
// Use this to get a logger that automatically includes run_id and component.
func LoggerFromContext(ctx context.Context) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return Logger
	}
	return Logger.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Resolver struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewResolver() *Resolver {
//	    return &Resolver{
//	        log: logger.ComponentLogger("resolve"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
