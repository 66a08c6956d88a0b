// Package retry runs an operation under a bounded attempt policy with
// exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

const defaultBaseDelay = 250 * time.Millisecond

// Policy bounds how often and how fast an operation is retried.
type Policy struct {
	MaxAttempts int           // total attempts including the first; <= 0 means 1
	BaseDelay   time.Duration // delay before the second attempt; <= 0 means 250ms
	MaxDelay    time.Duration // cap for a single delay; 0 means uncapped
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so that Do returns it without further attempts.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// Do runs fn until it succeeds, returns a permanent error, attempts are
// exhausted, or ctx is done. The returned error is the last one fn produced,
// with any Permanent wrapper removed.
func Do(ctx context.Context, policy Policy, fn func(context.Context) error) error {
	attempts := policy.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var p *permanentError
		if errors.As(lastErr, &p) {
			return p.err
		}

		if i == attempts {
			break
		}

		timer := time.NewTimer(policy.Backoff(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}

	return lastErr
}

// Backoff returns the delay to wait after the given failed attempt (1-based).
func (p Policy) Backoff(attempt int) time.Duration {
	base, delay := p.exponential(attempt)
	return p.capped(delay + time.Duration(rand.Int64N(int64(base))))
}

// Budget returns the longest Do can run when every attempt takes perAttempt
// and every backoff draws its maximum jitter.
func (p Policy) Budget(perAttempt time.Duration) time.Duration {
	attempts := max(p.MaxAttempts, 1)

	total := time.Duration(attempts) * perAttempt
	for i := 1; i < attempts; i++ {
		base, delay := p.exponential(i)
		total += p.capped(delay + base)
	}
	return total
}

func (p Policy) exponential(attempt int) (base, delay time.Duration) {
	base = p.BaseDelay
	if base <= 0 {
		base = defaultBaseDelay
	}
	if attempt < 1 {
		attempt = 1
	}
	return base, base * time.Duration(1<<uint(attempt-1))
}

func (p Policy) capped(delay time.Duration) time.Duration {
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}
