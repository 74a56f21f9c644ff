package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs
// within a context. Multiple WithLogFields calls merge, newer non-empty
// values taking precedence.
type LogFields struct {
	Model     string // model identifier currently being reviewed with
	Paper     string // paper file stem for the current run
	Component string // component name, e.g. "review.orchestrator"
}

// WithLogFields enriches context with structured log fields.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	if fields.Model != "" {
		existing.Model = fields.Model
	}
	if fields.Paper != "" {
		existing.Paper = fields.Paper
	}
	if fields.Component != "" {
		existing.Component = fields.Component
	}
	return context.WithValue(ctx, logFieldsKey, existing)
}

// GetLogFields retrieves log fields from context.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

// Truncate truncates a string to maxLen characters, appending "..." if
// truncated. Useful for logging prompt or error excerpts.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
