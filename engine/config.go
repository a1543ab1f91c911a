package engine

import (
	"fmt"
	"time"
)

// Config holds the engine's token lifetimes and sizes. Access and
// refresh token lifetimes live in the token service config; these
// cover the opaque values the engine mints itself.
type Config struct {
	// RefreshTokenBytes is the entropy of an opaque refresh token.
	RefreshTokenBytes int `yaml:"refresh_token_bytes" mapstructure:"refresh_token_bytes"`

	// SingleUseTokenBytes is the entropy of a verification or reset token.
	SingleUseTokenBytes int `yaml:"single_use_token_bytes" mapstructure:"single_use_token_bytes"`

	// VerificationTokenTTL bounds how long an email verification link works.
	VerificationTokenTTL time.Duration `yaml:"verification_token_ttl" mapstructure:"verification_token_ttl"`

	// ResetTokenTTL bounds how long a password reset link works.
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl" mapstructure:"reset_token_ttl"`
}

// ApplyDefaults fills zero values with production defaults.
func (c *Config) ApplyDefaults() {
	if c.RefreshTokenBytes == 0 {
		c.RefreshTokenBytes = 32
	}
	if c.SingleUseTokenBytes == 0 {
		c.SingleUseTokenBytes = 32
	}
	if c.VerificationTokenTTL == 0 {
		c.VerificationTokenTTL = 24 * time.Hour
	}
	if c.ResetTokenTTL == 0 {
		c.ResetTokenTTL = time.Hour
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RefreshTokenBytes < 16 {
		return fmt.Errorf("engine: refresh token bytes must be at least 16, got %d", c.RefreshTokenBytes)
	}
	if c.SingleUseTokenBytes < 16 {
		return fmt.Errorf("engine: single-use token bytes must be at least 16, got %d", c.SingleUseTokenBytes)
	}
	if c.VerificationTokenTTL <= 0 {
		return fmt.Errorf("engine: verification token ttl must be positive")
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("engine: reset token ttl must be positive")
	}
	return nil
}
