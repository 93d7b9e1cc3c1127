package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestWithRetry_AlwaysFailingOpRunsExactlyNTimes(t *testing.T) {
	calls := 0
	opErr := errors.New("boom")

	_, err := WithRetry(context.Background(), RetryConfig{Attempts: 3, BaseDelay: 0}, retryLogger(), func(context.Context) (int, error) {
		calls++
		return 0, opErr
	})

	require.Error(t, err)
	assert.Equal(t, opErr, err, "last error propagates")
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnFirstSuccess(t *testing.T) {
	calls := 0

	got, err := WithRetry(context.Background(), RetryConfig{Attempts: 3, BaseDelay: 0}, retryLogger(), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RecoversAfterFailure(t *testing.T) {
	calls := 0

	got, err := WithRetry(context.Background(), RetryConfig{Attempts: 2, BaseDelay: time.Millisecond}, retryLogger(), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", &TransportError{Provider: "openrouter", Err: errors.New("connection reset")}
		}
		return "recovered", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_CancellationIsNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := WithRetry(ctx, RetryConfig{Attempts: 5, BaseDelay: 0}, retryLogger(), func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, &TimeoutError{Provider: "openrouter", Err: context.Canceled}
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "cancelled context stops the loop")
}

func TestWithRetry_ZeroAttemptsStillRunsOnce(t *testing.T) {
	calls := 0

	_, err := WithRetry(context.Background(), RetryConfig{Attempts: 0, BaseDelay: 0}, retryLogger(), func(context.Context) (int, error) {
		calls++
		return 0, errors.New("fail")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_BackoffDoubles(t *testing.T) {
	var gaps []time.Duration
	last := time.Now()
	calls := 0

	_, err := WithRetry(context.Background(), RetryConfig{Attempts: 3, BaseDelay: 20 * time.Millisecond}, retryLogger(), func(context.Context) (int, error) {
		now := time.Now()
		if calls > 0 {
			gaps = append(gaps, now.Sub(last))
		}
		last = now
		calls++
		return 0, errors.New("fail")
	})

	require.Error(t, err)
	require.Len(t, gaps, 2)
	assert.GreaterOrEqual(t, gaps[0], 20*time.Millisecond)
	assert.GreaterOrEqual(t, gaps[1], 40*time.Millisecond)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&ProviderError{Provider: "openai", Status: 500}))
	assert.True(t, IsRetryable(&TimeoutError{Provider: "openai", Err: context.DeadlineExceeded}))
	assert.True(t, IsRetryable(&TransportError{Provider: "openai", Err: errors.New("refused")}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(&UnknownModelError{Model: "x"}))
}
