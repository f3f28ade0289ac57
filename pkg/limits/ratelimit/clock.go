package ratelimit

import (
	"sync"
	"time"
)

// Clock abstracts the time source used by rate limiters.
//
// Production code uses SystemClock (the default when a constructor receives
// a nil Clock). Tests inject a FakeClock to make window expiry deterministic
// without sleeping.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// SystemClock implements Clock using the real system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock implements Clock with manually controlled time.
//
// The clock is frozen: Now returns the same instant until Advance or Set
// moves it. FakeClock is safe for concurrent use, so tests can hammer a
// limiter from many goroutines at a single frozen instant.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock frozen at the given start time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the clock's current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. A negative d moves it backward.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to the given instant.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
