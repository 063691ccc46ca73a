package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/tasktracker/pkg/retry"
)

func fastPolicy(attempts int) retry.Policy {
	return retry.Policy{Attempts: attempts, Interval: time.Millisecond, Jitter: 0.5}
}

func TestDo_SucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	err := fastPolicy(2).Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("deadlock detected")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDo_ReraisesLastErrorOnExhaustion(t *testing.T) {
	calls := 0
	lockErr := errors.New("lock timeout")
	err := fastPolicy(2).Do(context.Background(), func(context.Context) error {
		calls++
		return lockErr
	})

	assert.ErrorIs(t, err, lockErr)
	assert.Equal(t, 2, calls)
}

func TestDo_PermanentErrorsAreNotRetried(t *testing.T) {
	conflict := errors.New("constraint violation")
	p := fastPolicy(5)
	p.Retryable = func(err error) bool { return !errors.Is(err, conflict) }

	calls := 0
	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return conflict
	})

	assert.ErrorIs(t, err, conflict)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancellationStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := fastPolicy(3).Do(ctx, func(ctx context.Context) error {
		calls++
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetryObservesWaitsWithinJitter(t *testing.T) {
	var waits []time.Duration
	p := retry.Policy{
		Attempts: 3,
		Interval: 10 * time.Millisecond,
		Jitter:   0.5,
		OnRetry:  func(_ error, wait time.Duration) { waits = append(waits, wait) },
	}

	_ = p.Do(context.Background(), func(context.Context) error { return errors.New("busy") })

	assert.Len(t, waits, 2)
	for _, w := range waits {
		assert.GreaterOrEqual(t, w, 5*time.Millisecond)
		assert.LessOrEqual(t, w, 15*time.Millisecond)
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_ = retry.Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("x")
	})
	assert.Equal(t, 1, calls)
}
