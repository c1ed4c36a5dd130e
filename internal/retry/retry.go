// Package retry provides the shared retry policy used by the YouTube, LLM and
// Notion clients. Each client supplies a classifier that decides which of its
// transport errors are worth retrying; everything else surfaces immediately.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Policy parameterizes the retry loop.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry; it doubles per attempt.
	BaseDelay time.Duration
	// MaxJitter is the upper bound of the random delay added to each backoff.
	MaxJitter time.Duration
}

// DefaultPolicy matches the upstream clients' contract: 3 attempts total,
// exponential backoff from 500ms, up to 1s of jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxJitter:   time.Second,
	}
}

// RateLimitError marks a structured rate-limit response from an upstream API.
// It is always retryable; RetryAfter, when the upstream supplied one, replaces
// the computed backoff for the next attempt.
type RateLimitError struct {
	Op         string
	RetryAfter time.Duration
	Cause      error
}

func (e *RateLimitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: rate limited: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("%s: rate limited", e.Op)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// Classifier reports whether an error is transient and worth retrying.
// Rate-limit errors are retried regardless of the classifier's answer.
type Classifier func(error) bool

// Do runs fn up to p.MaxAttempts times, backing off between attempts.
// It returns nil on the first success, ctx.Err() if the context is done while
// waiting, and the last attempt's error once the budget is exhausted.
func Do(ctx context.Context, p Policy, op string, retryable Classifier, fn func(context.Context) error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoff(p, attempt, lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		var rl *RateLimitError
		if !errors.As(lastErr, &rl) && (retryable == nil || !retryable(lastErr)) {
			return lastErr
		}
	}
	return lastErr
}

// backoff computes the wait before the given retry attempt (attempt >= 1).
// A rate-limit retry-after hint overrides the exponential base.
func backoff(p Policy, attempt int, lastErr error) time.Duration {
	delay := p.BaseDelay << (attempt - 1)

	var rl *RateLimitError
	if errors.As(lastErr, &rl) && rl.RetryAfter > 0 {
		delay = rl.RetryAfter
	}

	if p.MaxJitter > 0 {
		delay += time.Duration(rand.Int63n(int64(p.MaxJitter)))
	}
	return delay
}
