package limits

import (
	"mercator-hq/saturn/pkg/config"
)

// RulesFromConfig converts the configuration rule table into the manager's
// rule types. The returned map and default are independent copies; mutating
// the configuration afterwards does not affect them.
func RulesFromConfig(cfg *config.LimitsConfig) (map[string]Rule, *Rule) {
	if cfg == nil {
		return nil, nil
	}

	rules := make(map[string]Rule, len(cfg.Resources))
	for resource, rc := range cfg.Resources {
		rules[resource] = Rule{
			Rate:   rc.Rate,
			Period: rc.Period,
		}
	}

	var def *Rule
	if cfg.Default != nil {
		def = &Rule{
			Rate:   cfg.Default.Rate,
			Period: cfg.Default.Period,
		}
	}

	return rules, def
}
