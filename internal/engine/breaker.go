package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/mutarjim/translation-service/internal/lang"
)

// Breaker defaults.
const (
	defaultBreakerFailures = 5
	defaultBreakerTimeout  = 30 * time.Second
)

// BreakerConfig configures the circuit breaker around an engine.
type BreakerConfig struct {
	// ConsecutiveFailures is the failure streak that opens the circuit.
	ConsecutiveFailures uint32

	// OpenTimeout is how long the circuit stays open before probing again.
	OpenTimeout time.Duration
}

// Breaker wraps an engine with a circuit breaker: after a failure streak,
// calls fail fast with ErrUnavailable instead of hammering a struggling
// backend.
type Breaker struct {
	inner Engine
	cb    *gobreaker.CircuitBreaker
}

var _ Engine = (*Breaker)(nil)

// NewBreaker wraps inner with a circuit breaker.
func NewBreaker(inner Engine, cfg BreakerConfig) *Breaker {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = defaultBreakerFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = defaultBreakerTimeout
	}

	settings := gobreaker.Settings{
		Name:    inner.Name(),
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// A cancelled caller is not a capability failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{inner: inner, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Translate calls the inner engine through the breaker.
func (b *Breaker) Translate(ctx context.Context, text string, direction lang.Direction) (string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Translate(ctx, text, direction)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("circuit open for %s: %w", b.inner.Name(), ErrUnavailable)
		}
		return "", err
	}
	return result.(string), nil
}

// Name reports the inner engine's name.
func (b *Breaker) Name() string {
	return b.inner.Name()
}
