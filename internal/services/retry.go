package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 5 * time.Second
	defaultRetryMaxDelay  = 60 * time.Second
)

// RetryPolicy controls the generic retry-with-backoff wrapper. The zero value
// is usable and matches the pipeline defaults: three attempts, five second
// base delay doubling per retry, and only rate-limit-class errors retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	// Retryable decides whether a failure is worth another attempt. Nil
	// defaults to IsRateLimited.
	Retryable func(error) bool
	// Sleeper overrides how backoff waits are performed (useful for tests).
	Sleeper func(time.Duration)
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts <= 0 {
		return defaultRetryAttempts
	}
	return p.MaxAttempts
}

func (p RetryPolicy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return defaultRetryBaseDelay
	}
	return p.BaseDelay
}

func (p RetryPolicy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return defaultRetryMaxDelay
	}
	return p.MaxDelay
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRateLimited(err)
}

// Retry invokes fn until it succeeds, the policy's attempt budget is spent,
// or a non-retryable error occurs. The delay before attempt n+1 is the base
// delay doubled n-1 times, capped at the policy maximum.
func Retry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error) error {
	attempts := policy.attempts()
	delay := policy.baseDelay()

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !policy.retryable(err) {
			return err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("failed after %d attempts: %w", attempts, err)
		}
		if err := sleep(ctx, policy, delay); err != nil {
			return err
		}
		delay *= 2
		if maxDelay := policy.maxDelay(); delay > maxDelay {
			delay = maxDelay
		}
	}
}

func sleep(ctx context.Context, policy RetryPolicy, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if policy.Sleeper != nil {
		policy.Sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
