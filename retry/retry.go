// Package retry provides a bounded retry policy with pluggable backoff and
// a retryable-error predicate. The fetcher and the extraction client share
// this one loop instead of each carrying their own.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// DefaultMaxAttempts is the number of attempts made when a Policy does not
// specify one.
const DefaultMaxAttempts = 3

// BackoffFunc returns the delay to wait after a failed attempt.
// attempt is 1-based: the delay after the first failure is Backoff(1).
type BackoffFunc func(attempt int) time.Duration

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 fall back to DefaultMaxAttempts.
	MaxAttempts int

	// Backoff computes the sleep between attempts. nil means no delay.
	Backoff BackoffFunc

	// Retryable reports whether an error is worth another attempt.
	// nil means every error is retryable.
	Retryable func(error) bool
}

// Do runs op up to MaxAttempts times, sleeping Backoff(attempt) between
// failures. It returns nil on the first success, the error unchanged when
// Retryable rejects it, ctx.Err() if the context is done during a backoff
// sleep, and otherwise the last error after the budget is exhausted.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// ExponentialBackoff returns a BackoffFunc that waits 2^attempt units,
// capped at max, plus up to one unit of random jitter. With unit = time.Second
// and max = 30s this reproduces the classic min(2^n, 30s) + jitter schedule.
func ExponentialBackoff(unit, max time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		d := unit << uint(attempt)
		if d > max || d <= 0 {
			d = max
		}
		jitter := time.Duration(rand.Int63n(int64(unit) + 1))
		return d + jitter
	}
}

// NoBackoff returns a BackoffFunc with zero delay, for tests.
func NoBackoff() BackoffFunc {
	return func(int) time.Duration { return 0 }
}
