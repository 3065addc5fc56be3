package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tsdbkit/tsdbjson"
)

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retryOperation(context.Background(), fastRetry(3), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retryOperation failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryGivesUp(t *testing.T) {
	attempts := 0
	err := retryOperation(context.Background(), fastRetry(2), func() error {
		attempts++
		return errors.New("persistent")
	})
	if !IsRetryError(err) {
		t.Fatalf("error = %v, want RetryError", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts)
	}

	var re *RetryError
	if errors.As(err, &re) && re.Attempts != 3 {
		t.Errorf("RetryError.Attempts = %d, want 3", re.Attempts)
	}
}

func TestRetryNotFoundIsNotRetried(t *testing.T) {
	attempts := 0
	err := retryOperation(context.Background(), fastRetry(5), func() error {
		attempts++
		return tsdbjson.ErrNotFound
	})
	if !tsdbjson.IsNotFound(err) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (not retryable)", attempts)
	}
}

func TestRetryZeroConfigRunsOnce(t *testing.T) {
	attempts := 0
	err := retryOperation(context.Background(), RetryConfig{}, func() error {
		attempts++
		return errors.New("boom")
	})
	if err == nil || attempts != 1 {
		t.Errorf("attempts = %d, err = %v; want single failed attempt", attempts, err)
	}
}

func TestRetryRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryOperation(ctx, fastRetry(5), func() error {
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
