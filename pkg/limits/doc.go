// Package limits provides keyed sliding-window admission control.
//
// # Overview
//
// The limits package coordinates one sliding-window limiter per named
// resource. It supports:
//
//   - Per-resource admission rules (rate per period)
//   - A default rule for resources without explicit configuration
//   - Hot reload of the rule table without losing window state
//   - Prometheus instrumentation and an async decision journal
//
// # Architecture
//
// The package is organized around two layers:
//
//   - ratelimit: the single-window primitive (SlidingWindowLimiter,
//     Clock, Guard)
//   - limits: the keyed Manager that owns a limiter per resource and
//     feeds the metrics and journal sinks
//
// # Usage
//
//	manager, err := limits.NewManager(&limits.ManagerConfig{
//	    Rules: map[string]limits.Rule{
//	        "api.search": {Rate: 100, Period: time.Minute},
//	    },
//	    Metrics: limits.NewMetrics(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer manager.Close()
//
//	result := manager.TryAcquire(ctx, "api.search")
//	if !result.Allowed {
//	    return fmt.Errorf("rejected: retry after %v", result.RetryAfter)
//	}
//
// # Thread Safety
//
// All Manager operations are safe for concurrent use. The limiter map is
// guarded by an RWMutex; each window's purge-and-admit step runs under
// its own limiter mutex.
package limits
