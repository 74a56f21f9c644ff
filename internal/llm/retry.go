package llm

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"
)

// withRetry runs fn up to attempts times, doubling the delay between
// attempts. Only transport-level failures (timeouts, connection and TLS
// errors) are retried; HTTP status errors and response-shape errors fail
// immediately. The last recorded error is returned on exhaustion.
func withRetry(ctx context.Context, attempts int, base time.Duration, fn func() (string, error)) (string, error) {
	var lastErr error
	delay := base

	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := fn()
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !retryable(err) {
			slog.DebugContext(ctx, "provider error not retryable", "error", err)
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if attempt == attempts {
			break
		}

		slog.WarnContext(ctx, "transient provider error, retrying",
			"attempt", attempt,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
		delay *= 2
	}

	return "", lastErr
}

func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return false
	}
	var pe *shapeError
	if errors.As(err, &pe) {
		return false
	}
	// Client timeouts match context.DeadlineExceeded, so the timeout check
	// must come before the context check. Caller cancellation is handled by
	// the ctx.Err check in the retry loop.
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Connection-level failures: the request may never have reached the
	// provider, so another attempt can succeed.
	return true
}
