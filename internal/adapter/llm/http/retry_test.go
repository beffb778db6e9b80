package http

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RetriesRetryableError(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewServiceUnavailableError("gemini", "overloaded")
		}
		return nil
	}, fastRetryConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_StopsOnNonRetryableError(t *testing.T) {
	calls := 0
	authErr := NewAuthenticationError("gemini", "bad key")
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return authErr
	}, fastRetryConfig(3))

	assert.Equal(t, authErr, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return NewRateLimitError("gemini", "quota")
	}, fastRetryConfig(2))

	require.Error(t, err)
	var httpErr *Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, ErrTypeRateLimit, httpErr.Type)
	assert.Equal(t, 3, calls) // initial attempt + 2 retries
}

func TestRetryWithBackoff_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig(3))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(nil))
	assert.False(t, ShouldRetry(errors.New("generic")))
	assert.True(t, ShouldRetry(NewTimeoutError("gemini", "deadline")))
	assert.False(t, ShouldRetry(NewInvalidRequestError("gemini", "bad payload")))
}

func TestExponentialBackoff(t *testing.T) {
	config := RetryConfig{
		MaxRetries:     5,
		InitialBackoff: time.Second,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2.0,
	}

	for attempt := 0; attempt < 10; attempt++ {
		backoff := ExponentialBackoff(attempt, config)
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
		assert.LessOrEqual(t, backoff, config.MaxBackoff)
	}
}
