package config

import (
	"fmt"

	"github.com/keremavci/authkit/engine"
	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/password"
	"github.com/keremavci/authkit/ratelimit"
	"github.com/keremavci/authkit/token"
)

// Config aggregates every tunable of the engine and its surroundings.
type Config struct {
	// ServiceName labels log lines and telemetry.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// DatabaseDSN is the PostgreSQL connection string. Empty selects
	// the in-memory stores.
	DatabaseDSN string `yaml:"database_dsn" mapstructure:"database_dsn"`

	Logger    logger.Config      `yaml:"logger" mapstructure:"logger"`
	Password  password.Config    `yaml:"password" mapstructure:"password"`
	Token     token.Config       `yaml:"token" mapstructure:"token"`
	Engine    engine.Config      `yaml:"engine" mapstructure:"engine"`
	RateLimit []ratelimit.Policy `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ApplyDefaults fills zero values section by section. An empty rate
// limit list gets the standard policies.
func (c *Config) ApplyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "authkit"
	}
	c.Logger.ApplyDefaults()
	c.Password.ApplyDefaults()
	c.Token.ApplyDefaults()
	c.Engine.ApplyDefaults()
	if len(c.RateLimit) == 0 {
		c.RateLimit = ratelimit.DefaultPolicies()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	if err := c.Token.Validate(); err != nil {
		return fmt.Errorf("token: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	for _, p := range c.RateLimit {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("rate_limit: %w", err)
		}
	}
	return nil
}
