package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	if l := NewLimiter(10, 5); l.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", l.defaultBurst)
	}
	if l := NewLimiter(10, -1); l.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "POL-1"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if err := limiter.Wait(ctx, "POL-2"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
	if limiter.Len() != 2 {
		t.Errorf("expected 2 tracked policies, got %d", limiter.Len())
	}
}

func TestLimiter_RateLimitIsPerKey(t *testing.T) {
	limiter := NewLimiter(0.01, 1)

	if err := limiter.Wait(context.Background(), "POL-1"); err != nil {
		t.Fatalf("first claim for a policy should pass: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "POL-1"); err == nil {
		t.Error("expected second claim for the same policy to be throttled")
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	if err := limiter.Wait(ctx2, "POL-2"); err != nil {
		t.Errorf("expected another policy to be unaffected: %v", err)
	}
}

func TestLimiter_ZeroRateDisables(t *testing.T) {
	limiter := NewLimiter(0, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 100; i++ {
		if err := limiter.Wait(ctx, "POL-1"); err != nil {
			t.Fatalf("claim %d throttled with limiting disabled: %v", i, err)
		}
	}
}
