package cache

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure, such as an unreachable Redis
// server or a 503 from a page endpoint.
type RetryableError struct{ Err error }

// Retryable marks err as transient. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Attempts int           // total calls, including the first
	Delay    time.Duration // wait before the first retry
}

// DefaultBackoff is used by RetryWithBackoff.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 100 * time.Millisecond}

// Retry calls fn until it succeeds, returns an error not marked Retryable, or
// the attempts run out. The last error is returned. Waiting stops early when
// ctx ends.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
}

// RetryWithBackoff retries fn with DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
