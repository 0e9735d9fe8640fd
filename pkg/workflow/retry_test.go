package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), time.Second, func(_ context.Context) (string, error) {
		calls++
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestWithRetryRecoversOnSecondAttempt(t *testing.T) {
	calls := 0
	got, err := withRetry(context.Background(), time.Second, func(_ context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 2, calls)
}

func TestWithRetryGivesUpAfterOneRetry(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), time.Second, func(_ context.Context) (int, error) {
		calls++
		return 0, errors.New("persistent")
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryStopsWhenParentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := withRetry(ctx, time.Second, func(_ context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryAppliesPerAttemptDeadline(t *testing.T) {
	_, err := withRetry(context.Background(), time.Second, func(ctx context.Context) (int, error) {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
		return 1, nil
	})

	assert.NoError(t, err)
}
