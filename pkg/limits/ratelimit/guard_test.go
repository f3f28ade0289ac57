package ratelimit

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

// ============================================================================
// Guard Tests
// ============================================================================

func TestGuard_InvokesOperationWhenAdmitted(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(3, time.Minute, clock)

	invoked := 0
	guarded := Guard(limiter, func() error {
		invoked++
		return nil
	})

	if err := guarded(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if invoked != 1 {
		t.Errorf("Expected 1 invocation, got %d", invoked)
	}
}

func TestGuard_SkipsOperationWhenRejected(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(1, time.Minute, clock)

	invoked := 0
	guarded := Guard(limiter, func() error {
		invoked++
		return nil
	})

	if err := guarded(); err != nil {
		t.Fatalf("Unexpected error on first call: %v", err)
	}

	err := guarded()
	if err == nil {
		t.Fatal("Expected error on second call, got nil")
	}

	// The operation must not run on rejection
	if invoked != 1 {
		t.Errorf("Expected 1 invocation, got %d", invoked)
	}

	// Both the sentinel and the typed error must match
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Expected errors.Is(err, ErrRateLimitExceeded), got %v", err)
	}

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("Expected *RateLimitError, got %T", err)
	}
	if rlErr.Rate != 1 {
		t.Errorf("Expected rate 1 in error, got %d", rlErr.Rate)
	}
	if rlErr.Period != time.Minute {
		t.Errorf("Expected period 1m in error, got %v", rlErr.Period)
	}
	if rlErr.RetryAfter != time.Minute {
		t.Errorf("Expected retry-after 1m at frozen clock, got %v", rlErr.RetryAfter)
	}
}

func TestGuard_PropagatesOperationError(t *testing.T) {
	limiter, _ := NewSlidingWindowLimiter(10, time.Minute, nil)

	opErr := fmt.Errorf("backend unavailable")
	guarded := Guard(limiter, func() error {
		return opErr
	})

	if err := guarded(); !errors.Is(err, opErr) {
		t.Errorf("Expected operation error to pass through, got %v", err)
	}
}

func TestGuard_EndToEnd(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, err := NewSlidingWindowLimiter(3, 60*time.Second, clock)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	invoked := 0
	guarded := Guard(limiter, func() error {
		invoked++
		return nil
	})

	// Three calls at a frozen clock succeed
	for i := 0; i < 3; i++ {
		if err := guarded(); err != nil {
			t.Fatalf("Expected call %d to succeed, got %v", i+1, err)
		}
	}

	// The fourth fails without reaching the operation
	if err := guarded(); !errors.Is(err, ErrRateLimitExceeded) {
		t.Fatalf("Expected rate limit error on 4th call, got %v", err)
	}
	if invoked != 3 {
		t.Errorf("Expected 3 invocations, got %d", invoked)
	}

	// Two periods later the window has fully recovered
	clock.Advance(120 * time.Second)
	for i := 0; i < 3; i++ {
		if err := guarded(); err != nil {
			t.Fatalf("Expected call %d after recovery to succeed, got %v", i+1, err)
		}
	}
	if invoked != 6 {
		t.Errorf("Expected 6 invocations, got %d", invoked)
	}
	if err := guarded(); !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Expected rejection after refilling window, got %v", err)
	}
}

// ============================================================================
// GuardValue Tests
// ============================================================================

func TestGuardValue_PassesResultThrough(t *testing.T) {
	limiter, _ := NewSlidingWindowLimiter(10, time.Minute, nil)

	guarded := GuardValue(limiter, func() (string, error) {
		return "payload", nil
	})

	got, err := guarded()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "payload" {
		t.Errorf("Expected %q, got %q", "payload", got)
	}
}

func TestGuardValue_ZeroValueWhenRejected(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(1, time.Minute, clock)

	invoked := 0
	guarded := GuardValue(limiter, func() (int, error) {
		invoked++
		return 42, nil
	})

	if got, err := guarded(); err != nil || got != 42 {
		t.Fatalf("Expected (42, nil), got (%d, %v)", got, err)
	}

	got, err := guarded()
	if !errors.Is(err, ErrRateLimitExceeded) {
		t.Errorf("Expected rate limit error, got %v", err)
	}
	if got != 0 {
		t.Errorf("Expected zero value on rejection, got %d", got)
	}
	if invoked != 1 {
		t.Errorf("Expected 1 invocation, got %d", invoked)
	}
}

// ============================================================================
// Error Tests
// ============================================================================

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Field: "rate", Message: "must be positive, got 0"}

	want := "ratelimit config error in rate: must be positive, got 0"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{Rate: 3, Period: time.Minute, RetryAfter: 10 * time.Second}

	want := "rate limit exceeded: 3 per 1m0s (retry after 10s)"
	if err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkGuard_Admitted(b *testing.B) {
	limiter, _ := NewSlidingWindowLimiter(1<<30, time.Minute, nil)
	guarded := Guard(limiter, func() error { return nil })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = guarded()
	}
}

func BenchmarkGuard_Rejected(b *testing.B) {
	limiter, _ := NewSlidingWindowLimiter(1, time.Hour, nil)
	guarded := Guard(limiter, func() error { return nil })
	_ = guarded()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = guarded()
	}
}
