package limits

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"mercator-hq/saturn/pkg/journal"
	"mercator-hq/saturn/pkg/limits/ratelimit"
)

// Manager coordinates sliding-window admission control across named
// resources.
//
// The Manager is the primary interface for keyed rate limiting. It holds
// one SlidingWindowLimiter per resource, creates limiters for unknown
// resources from the default rule, and feeds Prometheus metrics and the
// decision journal when those are wired in.
//
// # Example
//
//	manager, err := limits.NewManager(&limits.ManagerConfig{
//	    Rules: map[string]limits.Rule{
//	        "api.search": {Rate: 100, Period: time.Minute},
//	        "api.export": {Rate: 5, Period: time.Hour},
//	    },
//	    Default: &limits.Rule{Rate: 1000, Period: time.Minute},
//	})
//	if err != nil {
//	    return err
//	}
//
//	result := manager.TryAcquire(ctx, "api.search")
//	if !result.Allowed {
//	    // Handle rejection; result.RetryAfter hints when to retry
//	}
type Manager struct {
	// Per-resource sliding-window limiters
	limiters map[string]*ratelimit.SlidingWindowLimiter

	// Rule table: explicit rules plus the optional default for
	// unconfigured resources
	rules       map[string]Rule
	defaultRule *Rule

	clock   ratelimit.Clock
	metrics *Metrics
	journal *journal.Recorder
	logger  *slog.Logger

	mu sync.RWMutex
}

// ManagerConfig contains configuration for the limits manager.
type ManagerConfig struct {
	// Rules maps resource names to their admission rules.
	Rules map[string]Rule

	// Default is applied to resources without an explicit rule.
	// nil means unconfigured resources are unlimited.
	Default *Rule

	// Clock is the time source shared by all limiters.
	// nil means the system clock.
	Clock ratelimit.Clock

	// Metrics receives admission instrumentation. nil disables it.
	Metrics *Metrics

	// Journal receives a record per admission decision. nil disables it.
	Journal *journal.Recorder
}

// NewManager creates a limits manager with the given configuration.
//
// Every configured rule is validated by constructing its limiter eagerly,
// so an invalid rate or period fails here rather than on first use. The
// error wraps the offending resource name and the underlying
// *ratelimit.ConfigError.
func NewManager(config *ManagerConfig) (*Manager, error) {
	if config == nil {
		config = &ManagerConfig{}
	}

	clock := config.Clock
	if clock == nil {
		clock = ratelimit.SystemClock{}
	}

	m := &Manager{
		limiters: make(map[string]*ratelimit.SlidingWindowLimiter, len(config.Rules)),
		rules:    make(map[string]Rule, len(config.Rules)),
		clock:    clock,
		metrics:  config.Metrics,
		journal:  config.Journal,
		logger:   slog.Default().With("component", "limits.manager"),
	}

	for resource, rule := range config.Rules {
		limiter, err := ratelimit.NewSlidingWindowLimiter(rule.Rate, rule.Period, clock)
		if err != nil {
			return nil, fmt.Errorf("resource %q: %w", resource, err)
		}
		m.limiters[resource] = limiter
		m.rules[resource] = rule
	}

	if config.Default != nil {
		// Probe construction so a bad default fails now, not on the
		// first unconfigured resource.
		if _, err := ratelimit.NewSlidingWindowLimiter(config.Default.Rate, config.Default.Period, clock); err != nil {
			return nil, fmt.Errorf("default rule: %w", err)
		}
		def := *config.Default
		m.defaultRule = &def
	}

	if m.metrics != nil {
		m.metrics.SetResources(len(m.rules))
	}

	m.logger.Info("limits manager initialized",
		"resources", len(m.rules),
		"has_default", m.defaultRule != nil,
	)

	return m, nil
}

// TryAcquire checks whether one call against the named resource is
// admitted right now. It never blocks.
//
// Resources with an explicit rule use their own window; unknown resources
// get a limiter created from the default rule on first use. With no rule
// and no default the call is admitted unconditionally and the result
// carries Rate 0, meaning unlimited.
//
// Parameters:
//   - ctx: Context passed through to the decision journal
//   - resource: The resource name to check
//
// Returns the check result; inspect result.Allowed for the decision.
func (m *Manager) TryAcquire(ctx context.Context, resource string) *CheckResult {
	start := time.Now()

	limiter, rule := m.limiterFor(resource)
	if limiter == nil {
		return m.admitUnlimited(ctx, resource, start)
	}

	decision := limiter.TryAcquire()
	remaining := limiter.Remaining()

	result := &CheckResult{
		Resource:  resource,
		Allowed:   decision.Allowed(),
		Decision:  decision,
		Rate:      rule.Rate,
		Period:    rule.Period,
		Remaining: remaining,
	}
	if !result.Allowed {
		result.Reason = fmt.Sprintf("rate limit exceeded: %d per %v", rule.Rate, rule.Period)
		result.RetryAfter = limiter.RetryAfter()
	}

	m.observe(ctx, result, rule.Rate-remaining, start)

	return result
}

// Guard wraps op so each invocation passes through the resource's
// admission check first. On rejection the returned function fails with a
// *ratelimit.RateLimitError and op is not invoked; on admission op runs
// and its error is returned unchanged.
func (m *Manager) Guard(resource string, op func() error) func() error {
	return func() error {
		result := m.TryAcquire(context.Background(), resource)
		if !result.Allowed {
			return &ratelimit.RateLimitError{
				Rate:       result.Rate,
				Period:     result.Period,
				RetryAfter: result.RetryAfter,
			}
		}
		return op()
	}
}

// Reload swaps the rule table.
//
// Resources whose rule is unchanged keep their live window state, so a
// reload does not grant rejected callers a fresh window. Changed rules
// get fresh limiters, and resources removed from the table are dropped.
// If any new rule is invalid the old table stays active and the error
// names the offending resource.
func (m *Manager) Reload(rules map[string]Rule, def *Rule) error {
	clock := m.clock

	// Validate and pre-build limiters before touching shared state
	fresh := make(map[string]*ratelimit.SlidingWindowLimiter, len(rules))
	for resource, rule := range rules {
		limiter, err := ratelimit.NewSlidingWindowLimiter(rule.Rate, rule.Period, clock)
		if err != nil {
			return fmt.Errorf("resource %q: %w", resource, err)
		}
		fresh[resource] = limiter
	}
	if def != nil {
		if _, err := ratelimit.NewSlidingWindowLimiter(def.Rate, def.Period, clock); err != nil {
			return fmt.Errorf("default rule: %w", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]*ratelimit.SlidingWindowLimiter, len(rules))
	for resource, rule := range rules {
		if old, ok := m.limiters[resource]; ok && old.Rate() == rule.Rate && old.Period() == rule.Period {
			next[resource] = old
			continue
		}
		next[resource] = fresh[resource]
	}

	// Limiters spawned from the default rule survive a reload as long as
	// the default itself did not change and the resource gained no
	// explicit rule.
	if def != nil && m.defaultRule != nil && *def == *m.defaultRule {
		for resource, limiter := range m.limiters {
			if _, explicit := next[resource]; explicit {
				continue
			}
			if _, hadRule := m.rules[resource]; hadRule {
				continue
			}
			next[resource] = limiter
		}
	}

	if m.metrics != nil {
		for resource := range m.rules {
			if _, kept := rules[resource]; !kept {
				m.metrics.DeleteResource(resource)
			}
		}
		m.metrics.SetResources(len(rules))
	}

	newRules := make(map[string]Rule, len(rules))
	for resource, rule := range rules {
		newRules[resource] = rule
	}

	m.limiters = next
	m.rules = newRules
	if def != nil {
		d := *def
		m.defaultRule = &d
	} else {
		m.defaultRule = nil
	}

	m.logger.Info("rule table reloaded",
		"resources", len(newRules),
		"has_default", m.defaultRule != nil,
	)

	return nil
}

// Resources returns the names of explicitly configured resources, sorted.
func (m *Manager) Resources() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.rules))
	for resource := range m.rules {
		names = append(names, resource)
	}
	sort.Strings(names)
	return names
}

// Rule returns the explicit rule for a resource, if one is configured.
func (m *Manager) Rule(resource string) (Rule, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rule, ok := m.rules[resource]
	return rule, ok
}

// DefaultRule returns the default rule applied to unconfigured resources,
// or nil when none is set.
func (m *Manager) DefaultRule() *Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.defaultRule == nil {
		return nil
	}
	def := *m.defaultRule
	return &def
}

// Close shuts down the manager. The journal recorder, when wired, is
// closed so buffered decisions reach storage; the storage backend itself
// belongs to the caller.
func (m *Manager) Close() error {
	if m.journal != nil {
		return m.journal.Close()
	}
	return nil
}

// limiterFor returns the limiter and effective rule for a resource,
// creating the limiter from the default rule on first use. A nil limiter
// means the resource is unlimited.
func (m *Manager) limiterFor(resource string) (*ratelimit.SlidingWindowLimiter, Rule) {
	m.mu.RLock()
	limiter, ok := m.limiters[resource]
	def := m.defaultRule
	m.mu.RUnlock()

	if ok {
		return limiter, Rule{Rate: limiter.Rate(), Period: limiter.Period()}
	}
	if def == nil {
		return nil, Rule{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another goroutine may have created it between the locks
	if limiter, ok = m.limiters[resource]; ok {
		return limiter, Rule{Rate: limiter.Rate(), Period: limiter.Period()}
	}

	limiter, err := ratelimit.NewSlidingWindowLimiter(m.defaultRule.Rate, m.defaultRule.Period, m.clock)
	if err != nil {
		// The default rule was validated at construction and reload;
		// treat the impossible as unlimited rather than panicking.
		m.logger.Error("failed to create limiter from default rule",
			"resource", resource,
			"error", err,
		)
		return nil, Rule{}
	}

	m.limiters[resource] = limiter
	m.logger.Debug("created limiter from default rule",
		"resource", resource,
		"rate", m.defaultRule.Rate,
		"period", m.defaultRule.Period,
	)

	return limiter, *m.defaultRule
}

// admitUnlimited produces the result for a resource with no rule and no
// default, still feeding metrics and the journal.
func (m *Manager) admitUnlimited(ctx context.Context, resource string, start time.Time) *CheckResult {
	result := &CheckResult{
		Resource: resource,
		Allowed:  true,
		Decision: ratelimit.Admitted,
	}

	m.observe(ctx, result, 0, start)

	return result
}

// observe feeds the metrics and journal sinks for one check.
func (m *Manager) observe(ctx context.Context, result *CheckResult, occupancy int, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordCheck(result.Resource, result.Decision)
		if result.Rate > 0 {
			m.metrics.SetWindowOccupancy(result.Resource, occupancy)
		}
		m.metrics.ObserveCheckDuration(time.Since(start).Seconds())
	}

	if m.journal != nil {
		// Drops on a full buffer are counted and logged by the recorder;
		// the admission path does not care.
		_ = m.journal.Record(ctx, &journal.Record{
			Resource:   result.Resource,
			Decision:   result.Decision.String(),
			Occupancy:  occupancy,
			Rate:       result.Rate,
			Period:     result.Period,
			RetryAfter: result.RetryAfter,
			Timestamp:  m.clock.Now(),
		})
	}
}
