package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

// ErrRateLimitExceeded is the sentinel error matched by errors.Is when a
// guarded operation is rejected. The concrete error returned is always a
// *RateLimitError carrying the limiter's configuration and retry hint.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// ConfigError indicates an invalid limiter configuration. It is returned
// by constructors when rate or period is not positive.
type ConfigError struct {
	Field   string // Configuration field that failed validation
	Message string // Human-readable description
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("ratelimit config error in %s: %s", e.Field, e.Message)
}

// RateLimitError is returned by guarded operations when the underlying
// limiter rejects a call. It carries enough context for callers to build
// Retry-After style responses.
type RateLimitError struct {
	Rate       int           // Configured admissions per window
	Period     time.Duration // Configured window length
	RetryAfter time.Duration // Time until the oldest entry leaves the window
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d per %v (retry after %v)",
		e.Rate, e.Period, e.RetryAfter)
}

// Is reports whether target is ErrRateLimitExceeded, so callers can test
// with errors.Is without knowing the concrete type.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}
