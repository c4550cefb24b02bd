package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"techscout/internal/services"
)

func TestRetrySucceedsAfterRateLimits(t *testing.T) {
	var delays []time.Duration
	policy := services.RetryPolicy{
		Sleeper: func(d time.Duration) { delays = append(delays, d) },
	}

	calls := 0
	err := services.Retry(context.Background(), policy, func(context.Context) error {
		calls++
		if calls < 3 {
			return services.Wrap(services.ErrRateLimited, "enhance", "generate", "quota exceeded", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(delays) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(delays))
	}
	if delays[0] != 5*time.Second || delays[1] != 10*time.Second {
		t.Fatalf("expected exponential backoff 5s then 10s, got %v", delays)
	}
}

func TestRetryStopsAtAttemptCeiling(t *testing.T) {
	policy := services.RetryPolicy{Sleeper: func(time.Duration) {}}

	calls := 0
	err := services.Retry(context.Background(), policy, func(context.Context) error {
		calls++
		return services.ErrRateLimited
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls)
	}
	if !services.IsRateLimited(err) {
		t.Fatalf("expected rate limit error to surface, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Fatalf("expected attempt count in error, got %v", err)
	}
}

func TestRetryDoesNotRetryOtherErrors(t *testing.T) {
	policy := services.RetryPolicy{Sleeper: func(time.Duration) {
		t.Fatal("sleep should not be called for non-retryable errors")
	}}

	permanent := errors.New("schema mismatch")
	calls := 0
	err := services.Retry(context.Background(), policy, func(context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := services.RetryPolicy{Sleeper: func(time.Duration) { cancel() }}

	calls := 0
	err := services.Retry(ctx, policy, func(context.Context) error {
		calls++
		return services.ErrRateLimited
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected retry loop to stop after cancel, got %d calls", calls)
	}
}
