// Package retry provides the single retry-with-backoff policy used by all
// outbound HTTP calls in the widget runtime.
package retry

import (
	"context"
	"time"
)

// Policy retries an operation up to MaxAttempts times, sleeping
// BaseDelay * attempt between tries (linear backoff).
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Default matches the widget's historical behavior: 3 attempts, 1s base.
var Default = Policy{MaxAttempts: 3, BaseDelay: time.Second}

// Do runs fn until it succeeds, attempts are exhausted, or ctx is done.
// The last error is returned when all attempts fail.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		delay := p.BaseDelay * time.Duration(i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}
