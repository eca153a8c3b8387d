package common

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/url"
	"time"

	"github.com/ternarybob/arbor"
)

// RetryConfig defines bounded retry behaviour for upstream market-data calls.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts including the first (default: 3)
	MaxAttempts int

	// InitialBackoff is the wait before the first retry (default: 500ms)
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts (default: 2s)
	MaxBackoff time.Duration

	// Multiplier is applied to the backoff after each retry (default: 2)
	Multiplier float64

	// Jitter is the upper bound of random delay added to each wait (default: 400ms)
	Jitter time.Duration
}

// Default retry constants.
const (
	DefaultRetryMaxAttempts    = 3
	DefaultRetryInitialBackoff = 500 * time.Millisecond
	DefaultRetryMaxBackoff     = 2 * time.Second
	DefaultRetryMultiplier     = 2.0
	DefaultRetryJitter         = 400 * time.Millisecond
)

// NewDefaultRetryConfig returns a RetryConfig with the default policy.
func NewDefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    DefaultRetryMaxAttempts,
		InitialBackoff: DefaultRetryInitialBackoff,
		MaxBackoff:     DefaultRetryMaxBackoff,
		Multiplier:     DefaultRetryMultiplier,
		Jitter:         DefaultRetryJitter,
	}
}

// CalculateBackoff computes the wait before the given retry (0-based), without jitter.
func (c RetryConfig) CalculateBackoff(attempt int) time.Duration {
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.Multiplier
	}

	backoff := time.Duration(float64(c.InitialBackoff) * multiplier)
	if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}

// retryable is implemented by errors that know whether a repeat may succeed.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err is worth another attempt: errors that
// declare themselves retryable, network failures and timeouts. Context
// cancellation never is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var r retryable
	if errors.As(err, &r) {
		return r.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Retry runs fn until it succeeds, returns a non-retryable error, the attempts
// are exhausted or ctx is done. The last error is returned.
func Retry[T any](ctx context.Context, cfg RetryConfig, logger arbor.ILogger, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRetryable(err) || attempt == attempts-1 {
			break
		}

		wait := cfg.CalculateBackoff(attempt)
		if cfg.Jitter > 0 {
			wait += rand.N(cfg.Jitter)
		}

		if logger != nil {
			logger.Warn().
				Err(err).
				Str("operation", operation).
				Int("attempt", attempt+1).
				Int("max_attempts", attempts).
				Str("backoff", wait.String()).
				Msg("Retrying after transient error")
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	return zero, lastErr
}
