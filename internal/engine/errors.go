package engine

import (
	"context"
	"errors"
)

// Sentinel errors for translation capability failures. Engines map
// provider-specific errors into these at the adapter boundary using
// fmt.Errorf("%s: %w", msg, sentinel); callers check with errors.Is.
var (
	// ErrRateLimit indicates the capability's rate limit was exceeded
	// (temporary, retryable).
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrQuotaExceeded indicates the capability's quota was exceeded
	// (billing issue, not retryable).
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTimeout indicates a translation call timed out.
	ErrTimeout = errors.New("request timeout")

	// ErrAuthFailed indicates capability authentication failed.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrBadRequest indicates a client error that is not otherwise
	// classified.
	ErrBadRequest = errors.New("bad request")

	// ErrUnavailable indicates the capability is temporarily unable to
	// serve (server errors, open circuit).
	ErrUnavailable = errors.New("capability unavailable")
)

// IsRetryable determines if an error is transient and worth retrying.
func IsRetryable(err error) bool {
	// Context cancellation is the caller giving up, never retryable.
	if errors.Is(err, context.Canceled) {
		return false
	}

	return errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnavailable)
}
