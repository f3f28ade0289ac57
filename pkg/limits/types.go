package limits

import (
	"fmt"
	"time"

	"mercator-hq/saturn/pkg/limits/ratelimit"
)

// Rule describes the admission limit for one resource: at most Rate calls
// within any trailing window of length Period.
type Rule struct {
	// Rate is the maximum number of admitted calls per window.
	Rate int

	// Period is the window length.
	Period time.Duration
}

// String returns a compact "rate/period" form, e.g. "100/1m0s".
func (r Rule) String() string {
	return fmt.Sprintf("%d/%v", r.Rate, r.Period)
}

// CheckResult contains the decision and metadata from an admission check.
// This is returned by Manager.TryAcquire() so callers can surface limit
// state (remaining slots, retry hints) without further calls.
type CheckResult struct {
	// Resource is the name the check was performed against.
	Resource string

	// Allowed indicates if the call is permitted.
	Allowed bool

	// Decision is the underlying limiter decision.
	Decision ratelimit.Decision

	// Reason explains why the call was rejected (if Allowed=false).
	Reason string

	// Rate is the configured per-window admission count.
	// 0 means the resource is unlimited.
	Rate int

	// Period is the configured window length.
	Period time.Duration

	// Remaining is the number of admission slots left in the window.
	Remaining int

	// RetryAfter is how long to wait before a slot frees (if rejected).
	RetryAfter time.Duration
}
