package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	result := Do(context.Background(), fastConfig(), func() error { return nil })

	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(), func() error {
		calls++
		if calls < 3 {
			return errors.New("503 service unavailable")
		}
		return nil
	})

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(), func() error {
		calls++
		return errors.New("incorrect api key provided")
	})

	assert.False(t, result.Success)
	assert.Equal(t, 1, calls, "deterministic failures must not be retried")
}

func TestDoExhaustsRetries(t *testing.T) {
	result := Do(context.Background(), fastConfig(), func() error {
		return errors.New("rate limit exceeded")
	})

	assert.False(t, result.Success)
	assert.Equal(t, 4, result.Attempts)
	assert.Error(t, result.LastError)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Do(ctx, fastConfig(), func() error {
		return errors.New("timeout")
	})

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.Attempts)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("429 Too Many Requests")))
	assert.True(t, IsRetryable(errors.New("dial tcp: connection refused")))
	assert.False(t, IsRetryable(errors.New("invalid request body")))
	assert.False(t, IsRetryable(nil))
}
