package poll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilPendingPendingComplete(t *testing.T) {
	statuses := []string{"pending", "pending", "complete"}
	calls := 0

	got, err := Until(context.Background(), Config{Interval: time.Millisecond, Timeout: time.Second},
		func(ctx context.Context) (string, error) {
			s := statuses[calls]
			calls++
			if s != "complete" {
				return s, ErrNotReady
			}
			return s, nil
		})

	require.NoError(t, err)
	assert.Equal(t, "complete", got)
	assert.Equal(t, 3, calls)
}

func TestUntilWrappedNotReadyRetries(t *testing.T) {
	calls := 0
	_, err := Until(context.Background(), Config{Interval: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			if calls < 2 {
				return 0, fmt.Errorf("receipt: %w", ErrNotReady)
			}
			return calls, nil
		})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestUntilPermanentError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	_, err := Until(context.Background(), Config{Interval: time.Millisecond, Timeout: time.Second},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, boom
		})

	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, calls)
}

func TestUntilTimeout(t *testing.T) {
	_, err := Until(context.Background(), Config{Interval: 5 * time.Millisecond, Timeout: 30 * time.Millisecond},
		func(ctx context.Context) (int, error) {
			return 0, ErrNotReady
		})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestUntilMaxAttempts(t *testing.T) {
	calls := 0
	_, err := Until(context.Background(), Config{Interval: time.Millisecond, MaxAttempts: 4},
		func(ctx context.Context) (int, error) {
			calls++
			return 0, ErrNotReady
		})
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 4, calls)
}

func TestUntilParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Until(ctx, Config{Interval: time.Millisecond},
		func(ctx context.Context) (int, error) {
			calls++
			if calls == 2 {
				cancel()
			}
			return 0, ErrNotReady
		})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}
