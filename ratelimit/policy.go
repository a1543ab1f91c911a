package ratelimit

import (
	"fmt"
	"time"
)

// Well-known policy names used across the engine.
const (
	PolicyLogin             = "login"
	PolicyPasswordReset     = "password_reset"
	PolicyVerificationEmail = "verification_email"
	PolicyAPI               = "api"
)

// Policy is one named fixed-window budget. Policies have independent
// keyspaces: the same caller key counts separately under each policy.
type Policy struct {
	// Name identifies the policy in Check calls, logs, and metrics.
	Name string `yaml:"name" mapstructure:"name"`

	// Window is the fixed window length.
	Window time.Duration `yaml:"window" mapstructure:"window"`

	// Max is the number of requests admitted per key per window.
	Max int `yaml:"max" mapstructure:"max"`
}

// Validate checks the policy.
func (p Policy) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("ratelimit: policy name is required")
	}
	if p.Window <= 0 {
		return fmt.Errorf("ratelimit: policy %s: window must be positive", p.Name)
	}
	if p.Max < 1 {
		return fmt.Errorf("ratelimit: policy %s: max must be >= 1", p.Name)
	}
	return nil
}

// DefaultPolicies returns the budgets the engine ships with.
func DefaultPolicies() []Policy {
	return []Policy{
		{Name: PolicyLogin, Window: 15 * time.Minute, Max: 5},
		{Name: PolicyPasswordReset, Window: time.Hour, Max: 3},
		{Name: PolicyVerificationEmail, Window: time.Hour, Max: 5},
		{Name: PolicyAPI, Window: time.Minute, Max: 60},
	}
}
