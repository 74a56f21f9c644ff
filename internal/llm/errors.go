package llm

import (
	"fmt"
	"strings"
)

// ConfigurationError means no credential was resolvable for a provider.
// It is fatal for that one client's construction only; the orchestrator
// records it per model instead of aborting the batch.
type ConfigurationError struct {
	Service string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s API key must be provided via the config command, the api-key parameter, or the %s environment variable",
		e.Service, strings.ToUpper(e.Service)+"_API_KEY")
}

// GenerationError wraps the final failure of a generate call after the
// retry policy is exhausted.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// statusError is a non-2xx HTTP response. Never retried: the request
// reached the provider and was rejected, so retrying wastes quota.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// shapeError is a response that came back 2xx but failed validation
// (malformed JSON, missing fields, empty completion). Never retried.
type shapeError struct {
	Reason string
}

func (e *shapeError) Error() string {
	return "invalid response: " + e.Reason
}
