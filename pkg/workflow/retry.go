package workflow

import (
	"context"
	"time"
)

const (
	searchTimeout = 10 * time.Second
	listTimeout   = 10 * time.Second
	retryBackoff  = 500 * time.Millisecond
)

// withRetry runs an idempotent read under a per-attempt deadline and retries
// once after a short backoff. Mutating operations must never go through here.
func withRetry[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	attempt := func() (T, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(attemptCtx)
	}

	result, err := attempt()
	if err == nil {
		return result, nil
	}
	if ctx.Err() != nil {
		return result, err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return result, err
	}

	return attempt()
}
