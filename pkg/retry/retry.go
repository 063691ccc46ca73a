// Package retry runs operations against flaky storage with a bounded number
// of attempts and randomized waits between them.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how often and how patiently an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first one.
	Attempts int
	// Interval is the mean wait between attempts.
	Interval time.Duration
	// Jitter spreads each wait uniformly over Interval ± Interval*Jitter.
	Jitter float64
	// Retryable reports whether err is worth another attempt. Nil retries everything
	// except context cancellation.
	Retryable func(err error) bool
	// OnRetry observes failed attempts that will be retried.
	OnRetry func(err error, wait time.Duration)
}

// Default waits 1–3s once before giving up.
func Default() Policy {
	return Policy{Attempts: 2, Interval: 2 * time.Second, Jitter: 0.5}
}

// Do calls op until it succeeds, fails permanently, attempts run out or ctx is done.
// The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	var b backoff.BackOff = p.newBackOff()
	b = backoff.WithMaxRetries(b, uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	operation := func() error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	var notify backoff.Notify
	if p.OnRetry != nil {
		notify = p.OnRetry
	}
	return backoff.RetryNotify(operation, b, notify)
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}

func (p Policy) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	if b.InitialInterval <= 0 {
		b.InitialInterval = time.Millisecond
	}
	b.RandomizationFactor = p.Jitter
	if b.RandomizationFactor < 0 || b.RandomizationFactor > 1 {
		b.RandomizationFactor = 0
	}
	// constant mean wait, only the jitter varies
	b.Multiplier = 1
	b.MaxInterval = b.InitialInterval
	b.MaxElapsedTime = 0
	return b
}
