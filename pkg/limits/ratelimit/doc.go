// Package ratelimit implements sliding-window admission control.
//
// # Overview
//
// The package provides a single primitive, the SlidingWindowLimiter: at
// most rate calls are admitted within any rolling window of the configured
// period. Admission timestamps are kept in an ordered queue; expired
// entries are purged on every check, so each decision reflects the true
// trailing window rather than fixed-window buckets with reset spikes.
//
// Use TryAcquire for a bare admission decision, or Guard/GuardValue to
// wrap an operation so that rejected calls fail fast with
// ErrRateLimitExceeded before the operation runs.
//
// # Clocks
//
// Limiters read time through the Clock interface. Production code passes
// nil to use the system clock; tests inject a FakeClock and advance it
// manually, which makes window expiry deterministic without sleeping.
//
// # Scope
//
// The limiter is in-process and in-memory only. Window state is neither
// shared across processes nor persisted across restarts, and no queueing
// or retrying happens internally: a rejected call returns immediately and
// the caller decides whether to wait.
//
// # Usage
//
//	limiter, err := ratelimit.NewSlidingWindowLimiter(3, time.Minute, nil)
//	if err != nil {
//	    return err
//	}
//
//	switch limiter.TryAcquire() {
//	case ratelimit.Admitted:
//	    // proceed
//	case ratelimit.Rejected:
//	    // shed load, retry after limiter.RetryAfter()
//	}
package ratelimit
