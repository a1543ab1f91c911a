package store

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record of an issued refresh token. The
// TokenHash field holds a SHA-256 digest of the opaque value handed to the
// client; the raw value is never stored.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewRefreshToken builds a refresh token record expiring after ttl.
func NewRefreshToken(accountID, tokenHash string, ttl time.Duration) *RefreshToken {
	now := time.Now().UTC()
	return &RefreshToken{
		ID:        uuid.NewString(),
		AccountID: accountID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Used reports whether the token has been consumed. Terminal.
func (t *RefreshToken) Used() bool { return t.UsedAt != nil }

// Expired reports whether the token is past its expiry at the given instant.
// Strict comparison: a token expiring exactly now is expired.
func (t *RefreshToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }

// Purpose distinguishes the two single-use token flows.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
)

// SingleUseToken is an email-verification or password-reset token. Email is
// the delivery target for verification tokens and empty for reset tokens.
type SingleUseToken struct {
	ID        string
	AccountID string
	Email     string
	Purpose   Purpose
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// NewSingleUseToken builds a single-use token record expiring after ttl.
func NewSingleUseToken(accountID, email string, purpose Purpose, tokenHash string, ttl time.Duration) *SingleUseToken {
	now := time.Now().UTC()
	return &SingleUseToken{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Email:     NormalizeEmail(email),
		Purpose:   purpose,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}

// Used reports whether the token has been consumed. Terminal.
func (t *SingleUseToken) Used() bool { return t.UsedAt != nil }

// Expired reports whether the token is past its expiry at the given instant.
func (t *SingleUseToken) Expired(now time.Time) bool { return !now.Before(t.ExpiresAt) }
