// Package poll repeats a check on a fixed interval until it reports a result.
package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"compass-earn/internal/config"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrNotReady is returned by a check whose result is not available yet.
	ErrNotReady = errors.New("poll: not ready")
	// ErrTimeout is returned when the deadline passes before the check succeeds.
	ErrTimeout = errors.New("poll: timed out")
)

type Config struct {
	Interval time.Duration
	// Timeout of zero waits until ctx is done.
	Timeout time.Duration
	// MaxAttempts of zero means unlimited.
	MaxAttempts uint64
}

// FromConf converts file configuration.
func FromConf(c config.PollConf) Config {
	return Config{
		Interval:    c.Interval,
		Timeout:     c.Timeout,
		MaxAttempts: c.MaxAttempts,
	}
}

// Until calls check immediately and then once per interval. A check returning
// ErrNotReady (or an error wrapping it) is retried; any other error stops polling
// and is returned as is. The first successful result is returned and check is
// not called again.
func Until[T any](ctx context.Context, c Config, check func(ctx context.Context) (T, error)) (T, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(interval)
	if c.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, c.MaxAttempts-1)
	}
	b = backoff.WithContext(b, ctx)

	var lastErr error
	result, err := backoff.RetryWithData(func() (T, error) {
		v, err := check(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if errors.Is(err, ErrNotReady) {
			return v, err
		}
		return v, backoff.Permanent(err)
	}, b)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, ErrNotReady) || errors.Is(err, context.DeadlineExceeded) {
		if lastErr == nil {
			lastErr = err
		}
		var zero T
		return zero, fmt.Errorf("%w: %v", ErrTimeout, lastErr)
	}
	var zero T
	return zero, err
}
