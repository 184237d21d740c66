package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/dynamic-streams-auction-go/auction/core"
	"github.com/AntonStoeckl/dynamic-streams-auction-go/eventstore"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(t.Context(), fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RetryOnConcurrencyConflict(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return eventstore.ErrConcurrencyConflict
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(t.Context(), fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_BusinessErrorsFailFast(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return core.ErrCooldownTime
	}

	meta, err := RetryWithExponentialBackoff(t.Context(), fn)

	assert.ErrorIs(t, err, core.ErrCooldownTime)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return eventstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(t.Context(), fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
	)

	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.Equal(t, 3, callCount)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
	assert.Equal(t, 3*time.Millisecond, meta.TotalDelay)
}

func Test_RetryWithExponentialBackoff_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return eventstore.ErrConcurrencyConflict
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	testCases := []struct {
		option RetryOption
		err    error
	}{
		{WithMaxAttempts(0), ErrInvalidMaxAttempts},
		{WithBaseDelay(-time.Millisecond), ErrNegativeBaseDelay},
		{WithJitterFactor(1.5), ErrInvalidJitterFactor},
		{WithJitterFactor(-0.1), ErrInvalidJitterFactor},
	}

	for _, tc := range testCases {
		_, err := RetryWithExponentialBackoff(t.Context(), fn, tc.option)
		assert.True(t, errors.Is(err, tc.err))
	}
}
