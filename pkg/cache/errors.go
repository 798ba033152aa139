package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable means the backend could not be reached.
	ErrUnavailable = errors.New("cache backend unavailable")

	// ErrCacheMiss is returned by GetJSON for absent, expired or corrupt entries.
	ErrCacheMiss = errors.New("cache miss")
)

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as transient for Backoff.Do. It returns nil for nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err was marked with Retryable.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// connectBackoff is used when dialing Redis.
var connectBackoff = Backoff{Attempts: 3, Delay: 500 * time.Millisecond}

// Do calls fn until it succeeds, returns an error not marked Retryable, or
// the attempts run out. The last error is returned; a cancelled ctx wins
// over a pending retry.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Delay
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
	return err
}
