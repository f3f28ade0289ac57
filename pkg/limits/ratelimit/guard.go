package ratelimit

// Guard wraps op with an admission check against l.
//
// The returned function calls l.TryAcquire exactly once per invocation.
// On rejection it returns a *RateLimitError without invoking op; on
// admission it invokes op and returns its error unchanged. The wrapper
// adds no retries and no blocking: callers decide how to react to
// ErrRateLimitExceeded.
//
// Example:
//
//	limiter, _ := ratelimit.NewSlidingWindowLimiter(3, time.Minute, nil)
//	send := ratelimit.Guard(limiter, func() error {
//	    return client.Send(msg)
//	})
//
//	if err := send(); errors.Is(err, ratelimit.ErrRateLimitExceeded) {
//	    // back off
//	}
func Guard(l *SlidingWindowLimiter, op func() error) func() error {
	return func() error {
		if l.TryAcquire() == Rejected {
			return &RateLimitError{
				Rate:       l.Rate(),
				Period:     l.Period(),
				RetryAfter: l.RetryAfter(),
			}
		}
		return op()
	}
}

// GuardValue wraps a value-returning operation the same way Guard wraps a
// plain one. On rejection it returns the zero value of T and a
// *RateLimitError; on admission it passes op's result through unchanged.
func GuardValue[T any](l *SlidingWindowLimiter, op func() (T, error)) func() (T, error) {
	return func() (T, error) {
		if l.TryAcquire() == Rejected {
			var zero T
			return zero, &RateLimitError{
				Rate:       l.Rate(),
				Period:     l.Period(),
				RetryAfter: l.RetryAfter(),
			}
		}
		return op()
	}
}
