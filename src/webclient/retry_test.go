package webclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsFirstSuccess(t *testing.T) {
	calls := 0
	status, body, err := Do(context.Background(), DefaultPolicy(3, time.Millisecond), func() (int, []byte, error) {
		calls++
		return 200, []byte("ok"), nil
	})

	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientFailures(t *testing.T) {
	calls := 0
	status, _, err := Do(context.Background(), DefaultPolicy(3, time.Millisecond), func() (int, []byte, error) {
		calls++
		if calls < 3 {
			return 500, nil, nil
		}
		return 200, nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnTerminalFailure(t *testing.T) {
	terminal := errors.New("user not found")
	calls := 0
	p := Policy{
		Attempts:  5,
		Delay:     time.Millisecond,
		Retryable: func(status int, err error) bool { return !errors.Is(err, terminal) },
	}

	_, _, err := Do(context.Background(), p, func() (int, []byte, error) {
		calls++
		return 404, nil, terminal
	})

	assert.ErrorIs(t, err, terminal)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, _, err := Do(context.Background(), DefaultPolicy(3, time.Millisecond), func() (int, []byte, error) {
		calls++
		return 0, nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Do(ctx, DefaultPolicy(3, time.Minute), func() (int, []byte, error) {
		return 500, nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRateLimitAwareBackoff(t *testing.T) {
	base := time.Second
	assert.Equal(t, 2*time.Second, RateLimitAwareBackoff(1, 429, base))
	assert.Equal(t, 1*time.Second, RateLimitAwareBackoff(1, 500, base))
	assert.Equal(t, 3*time.Second, RateLimitAwareBackoff(3, 0, base))
}
