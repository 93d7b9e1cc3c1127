package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// RetryConfig tunes the per-model retry loop.
type RetryConfig struct {
	// Attempts is the total number of tries, including the first.
	Attempts int
	// BaseDelay is the first backoff; each subsequent delay doubles.
	BaseDelay time.Duration
}

// DefaultRetryConfig retries once after 300ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:  2,
		BaseDelay: 300 * time.Millisecond,
	}
}

// WithRetry runs op up to cfg.Attempts times with exponential backoff,
// returning the first success or the last error. Cancellation stops the
// loop immediately: a cancelled context is never worth retrying.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, logger *logrus.Logger, op func(context.Context) (T, error)) (T, error) {
	var zero T
	attempts := cfg.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, lastErr
		}
		if i == attempts-1 {
			break
		}

		delay := cfg.BaseDelay * (1 << i)
		logger.WithFields(logrus.Fields{
			"attempt": i + 1,
			"delay":   delay,
		}).WithError(err).Debug("Retrying after failure")

		select {
		case <-ctx.Done():
			return zero, lastErr
		case <-time.After(delay):
		}
	}
	return zero, lastErr
}
