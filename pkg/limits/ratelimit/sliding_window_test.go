package ratelimit

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// ============================================================================
// Construction Tests
// ============================================================================

func TestNewSlidingWindowLimiter_Validation(t *testing.T) {
	tests := []struct {
		name   string
		rate   int
		period time.Duration
		field  string
	}{
		{"zero rate", 0, time.Minute, "rate"},
		{"negative rate", -1, time.Minute, "rate"},
		{"zero period", 3, 0, "period"},
		{"negative period", 3, -time.Second, "period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSlidingWindowLimiter(tt.rate, tt.period, nil)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Expected *ConfigError, got %T", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, cfgErr.Field)
			}
		})
	}
}

func TestNewSlidingWindowLimiter_Defaults(t *testing.T) {
	limiter, err := NewSlidingWindowLimiter(5, time.Second, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if limiter.Rate() != 5 {
		t.Errorf("Expected rate 5, got %d", limiter.Rate())
	}
	if limiter.Period() != time.Second {
		t.Errorf("Expected period 1s, got %v", limiter.Period())
	}
	if limiter.Remaining() != 5 {
		t.Errorf("Expected 5 remaining, got %d", limiter.Remaining())
	}
}

// ============================================================================
// Admission Tests
// ============================================================================

func TestSlidingWindowLimiter_AdmitsUpToRate(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, err := NewSlidingWindowLimiter(3, time.Minute, clock)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// First rate calls at a frozen instant are admitted
	for i := 0; i < 3; i++ {
		if d := limiter.TryAcquire(); d != Admitted {
			t.Fatalf("Expected call %d to be admitted, got %v", i+1, d)
		}
	}

	// The next call at the same instant is rejected
	if d := limiter.TryAcquire(); d != Rejected {
		t.Fatalf("Expected 4th call to be rejected, got %v", d)
	}
}

func TestSlidingWindowLimiter_RejectionIsIdempotent(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(2, time.Minute, clock)

	limiter.TryAcquire()
	limiter.TryAcquire()

	// Rejected calls at the same frozen instant stay rejected and record
	// nothing
	for i := 0; i < 10; i++ {
		if d := limiter.TryAcquire(); d != Rejected {
			t.Fatalf("Expected rejection %d, got %v", i+1, d)
		}
	}

	// If rejections had been recorded, the window would have been extended
	// and this admission would fail
	clock.Advance(time.Minute + time.Nanosecond)
	if d := limiter.TryAcquire(); d != Admitted {
		t.Errorf("Expected admission after window expiry, got %v", d)
	}
}

func TestSlidingWindowLimiter_WindowBoundary(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, _ := NewSlidingWindowLimiter(3, time.Minute, clock)

	for i := 0; i < 3; i++ {
		limiter.TryAcquire()
	}

	// At exactly start+period the entries recorded at start are still
	// inside the window (an entry expires only once now is past T+period)
	clock.Set(start.Add(time.Minute))
	if d := limiter.TryAcquire(); d != Rejected {
		t.Errorf("Expected rejection at exact boundary, got %v", d)
	}

	// One nanosecond later they have expired
	clock.Advance(time.Nanosecond)
	if d := limiter.TryAcquire(); d != Admitted {
		t.Errorf("Expected admission just past boundary, got %v", d)
	}
}

func TestSlidingWindowLimiter_WindowRecovery(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, _ := NewSlidingWindowLimiter(3, time.Minute, clock)

	for i := 0; i < 3; i++ {
		if d := limiter.TryAcquire(); d != Admitted {
			t.Fatalf("Expected admission %d, got %v", i+1, d)
		}
	}

	// Well past the window every slot is free again
	clock.Advance(2 * time.Minute)
	for i := 0; i < 3; i++ {
		if d := limiter.TryAcquire(); d != Admitted {
			t.Fatalf("Expected admission %d after recovery, got %v", i+1, d)
		}
	}
	if d := limiter.TryAcquire(); d != Rejected {
		t.Errorf("Expected rejection after refilling window, got %v", d)
	}
}

func TestSlidingWindowLimiter_PartialExpiry(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, _ := NewSlidingWindowLimiter(2, time.Minute, clock)

	// One admission at T, one at T+30s
	limiter.TryAcquire()
	clock.Advance(30 * time.Second)
	limiter.TryAcquire()

	// At T+45s both are live
	clock.Advance(15 * time.Second)
	if d := limiter.TryAcquire(); d != Rejected {
		t.Errorf("Expected rejection with both entries live, got %v", d)
	}

	// At T+61s only the T+30s entry remains, freeing one slot
	clock.Set(start.Add(61 * time.Second))
	if d := limiter.TryAcquire(); d != Admitted {
		t.Errorf("Expected admission after oldest entry expired, got %v", d)
	}
	if d := limiter.TryAcquire(); d != Rejected {
		t.Errorf("Expected rejection with window refilled, got %v", d)
	}
}

func TestSlidingWindowLimiter_TrailingWindowBound(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	rate := 2
	period := time.Minute
	limiter, _ := NewSlidingWindowLimiter(rate, period, clock)

	// Issue 3*rate calls spaced period/2 apart and record the admissions
	var admitted []time.Time
	for i := 0; i < 3*rate; i++ {
		if limiter.TryAcquire() == Admitted {
			admitted = append(admitted, clock.Now())
		}
		clock.Advance(period / 2)
	}

	// No trailing window of length period may contain more than rate
	// admissions
	for _, end := range admitted {
		count := 0
		for _, at := range admitted {
			if !at.Before(end.Add(-period)) && !at.After(end) {
				count++
			}
		}
		if count > rate {
			t.Errorf("Window ending %v holds %d admissions, want <= %d",
				end, count, rate)
		}
	}

	// Spaced period/2 apart the pattern settles into admit-admit-reject
	if len(admitted) != 4 {
		t.Errorf("Expected 4 of 6 calls admitted, got %d", len(admitted))
	}
}

// ============================================================================
// Accessor Tests
// ============================================================================

func TestSlidingWindowLimiter_Remaining(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(3, time.Minute, clock)

	for want := 3; want > 0; want-- {
		if got := limiter.Remaining(); got != want {
			t.Errorf("Expected %d remaining, got %d", want, got)
		}
		limiter.TryAcquire()
	}

	if got := limiter.Remaining(); got != 0 {
		t.Errorf("Expected 0 remaining, got %d", got)
	}

	// Expiry frees all slots
	clock.Advance(time.Minute + time.Second)
	if got := limiter.Remaining(); got != 3 {
		t.Errorf("Expected 3 remaining after expiry, got %d", got)
	}
}

func TestSlidingWindowLimiter_RetryAfter(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, _ := NewSlidingWindowLimiter(2, time.Minute, clock)

	// With free slots there is nothing to wait for
	if got := limiter.RetryAfter(); got != 0 {
		t.Errorf("Expected 0 retry-after with free slots, got %v", got)
	}

	limiter.TryAcquire()
	limiter.TryAcquire()

	// Full window: wait until the oldest entry (recorded at start) expires
	if got := limiter.RetryAfter(); got != time.Minute {
		t.Errorf("Expected 1m retry-after, got %v", got)
	}

	clock.Advance(20 * time.Second)
	if got := limiter.RetryAfter(); got != 40*time.Second {
		t.Errorf("Expected 40s retry-after, got %v", got)
	}

	clock.Advance(41 * time.Second)
	if got := limiter.RetryAfter(); got != 0 {
		t.Errorf("Expected 0 retry-after once window cleared, got %v", got)
	}
}

// ============================================================================
// Clock Edge Cases
// ============================================================================

func TestSlidingWindowLimiter_BackwardClock(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)
	limiter, _ := NewSlidingWindowLimiter(3, time.Minute, clock)

	limiter.TryAcquire()
	limiter.TryAcquire()

	// A backward step must not panic and must keep the count bound
	clock.Set(start.Add(-time.Hour))
	if d := limiter.TryAcquire(); d != Admitted {
		t.Errorf("Expected admission with free slot, got %v", d)
	}
	if d := limiter.TryAcquire(); d != Rejected {
		t.Errorf("Expected rejection at capacity, got %v", d)
	}
}

// ============================================================================
// Concurrency Tests
// ============================================================================

func TestSlidingWindowLimiter_ConcurrentFrozenClock(t *testing.T) {
	clock := NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	limiter, _ := NewSlidingWindowLimiter(50, time.Minute, clock)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	// 200 goroutines race for 50 slots at one frozen instant
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.TryAcquire() == Admitted {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if admitted != 50 {
		t.Errorf("Expected exactly 50 admissions, got %d", admitted)
	}
	if limiter.Remaining() != 0 {
		t.Errorf("Expected 0 remaining, got %d", limiter.Remaining())
	}
}

func TestSlidingWindowLimiter_ConcurrentSystemClock(t *testing.T) {
	limiter, _ := NewSlidingWindowLimiter(1000, time.Minute, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if limiter.TryAcquire() == Admitted {
					mu.Lock()
					admitted++
					mu.Unlock()
				}
			}
		}()
	}

	wg.Wait()

	// 1000 attempts against a 1000-per-minute window all fit
	if admitted != 1000 {
		t.Errorf("Expected 1000 admissions, got %d", admitted)
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkSlidingWindowLimiter_TryAcquire(b *testing.B) {
	limiter, _ := NewSlidingWindowLimiter(1<<30, time.Minute, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.TryAcquire()
	}
}

func BenchmarkSlidingWindowLimiter_TryAcquireRejected(b *testing.B) {
	limiter, _ := NewSlidingWindowLimiter(1, time.Hour, nil)
	limiter.TryAcquire()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.TryAcquire()
	}
}

func BenchmarkSlidingWindowLimiter_Concurrent(b *testing.B) {
	limiter, _ := NewSlidingWindowLimiter(1<<30, time.Minute, nil)

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.TryAcquire()
		}
	})
}
