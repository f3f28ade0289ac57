package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// SlidingWindowLimiter admits at most rate calls per rolling period.
//
// The limiter keeps the admission instants still inside the window in an
// ordered queue (oldest first). Each check purges expired entries, compares
// the live count against the configured rate, and records the new admission
// if a slot is free. Unlike fixed windows there is no reset boundary to
// spike across: the window slides continuously with the clock.
//
// # Algorithm
//
//  1. Read now from the injected clock
//  2. Drop entries strictly older than now-period from the head of the queue
//  3. If the live count has reached rate, reject without recording
//  4. Otherwise append now and admit
//
// Because the queue is ordered, the purge stops at the first live entry;
// everything behind it is live too. The queue never holds more than rate
// entries, so the cost of a check is bounded by the configured rate.
//
// # Window Boundary
//
// An entry recorded at T expires only once now is past T+period. A
// timestamp exactly period old is still inside the window, so a full
// window recorded at T still rejects at exactly T+period and admits at
// any instant after it.
//
// # Thread Safety
//
// SlidingWindowLimiter is safe for concurrent use. Purge, count check, and
// append happen under one mutex, so no two goroutines can both observe a
// free slot and overfill the window.
type SlidingWindowLimiter struct {
	rate   int           // Maximum admissions per window
	period time.Duration // Window length
	clock  Clock         // Injected time source

	mu         sync.Mutex
	timestamps []time.Time // Admission instants, oldest first
}

// NewSlidingWindowLimiter creates a limiter admitting at most rate calls
// per period.
//
// Parameters:
//   - rate: Maximum number of admissions per window. Must be > 0.
//   - period: Window length. Must be > 0.
//   - clock: Time source. Pass nil to use the system clock.
//
// Returns a *ConfigError when rate or period is not positive.
//
// Example:
//
//	// At most 3 calls per minute
//	limiter, err := ratelimit.NewSlidingWindowLimiter(3, time.Minute, nil)
func NewSlidingWindowLimiter(rate int, period time.Duration, clock Clock) (*SlidingWindowLimiter, error) {
	if rate <= 0 {
		return nil, &ConfigError{
			Field:   "rate",
			Message: fmt.Sprintf("must be positive, got %d", rate),
		}
	}
	if period <= 0 {
		return nil, &ConfigError{
			Field:   "period",
			Message: fmt.Sprintf("must be positive, got %v", period),
		}
	}
	if clock == nil {
		clock = SystemClock{}
	}

	return &SlidingWindowLimiter{
		rate:       rate,
		period:     period,
		clock:      clock,
		timestamps: make([]time.Time, 0, rate),
	}, nil
}

// TryAcquire performs a single admission check.
//
// It never blocks: the decision reflects the window at the instant of the
// call. Admitted means the call was recorded and counts against later
// checks inside the period. Rejected means the window was full and nothing
// was recorded, so rejected calls never extend the window.
func (l *SlidingWindowLimiter) TryAcquire() Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.purgeLocked(now)

	if len(l.timestamps) >= l.rate {
		return Rejected
	}

	l.timestamps = append(l.timestamps, now)
	return Admitted
}

// Rate returns the configured maximum admissions per window.
func (l *SlidingWindowLimiter) Rate() int {
	return l.rate
}

// Period returns the configured window length.
func (l *SlidingWindowLimiter) Period() time.Duration {
	return l.period
}

// Remaining returns how many admissions are free in the window right now.
func (l *SlidingWindowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purgeLocked(l.clock.Now())
	return l.rate - len(l.timestamps)
}

// RetryAfter returns how long until the next admission can succeed.
// It returns 0 when a slot is already free.
func (l *SlidingWindowLimiter) RetryAfter() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.purgeLocked(now)

	if len(l.timestamps) < l.rate {
		return 0
	}

	// The oldest live entry frees its slot once now is past oldest+period.
	wait := l.timestamps[0].Add(l.period).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait
}

// purgeLocked drops entries strictly older than now-period from the head
// of the queue. An entry exactly period old is kept. Caller must hold mu.
func (l *SlidingWindowLimiter) purgeLocked(now time.Time) {
	cutoff := now.Add(-l.period)

	i := 0
	for i < len(l.timestamps) && l.timestamps[i].Before(cutoff) {
		i++
	}

	if i == 0 {
		return
	}

	// Shift live entries to the front so the backing array is reused
	// instead of growing with every window turnover.
	n := copy(l.timestamps, l.timestamps[i:])
	l.timestamps = l.timestamps[:n]
}
