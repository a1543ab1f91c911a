package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the account lifecycle state. The only transitions are
// pending -> active (email verified) and active -> suspended (admin action);
// suspension is terminal without external reactivation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// ProviderLocal tags accounts that authenticate with a password.
// Any other provider tag marks a social-login account.
const ProviderLocal = "local"

// Account is one identity record.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Verified     bool
	Status       Status
	Provider     string
	ProviderID   string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NormalizeEmail lowercases and trims an address. Every lookup and every
// stored email goes through this, so matching is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewLocalAccount builds a password-backed account in pending status.
// The password hash is required: a local account without one would be
// unloggable, which the data model forbids.
func NewLocalAccount(email, passwordHash, firstName, lastName string) (*Account, error) {
	if passwordHash == "" {
		return nil, fmt.Errorf("store: local account requires a password hash")
	}
	now := time.Now().UTC()
	return &Account{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		Verified:     false,
		Status:       StatusPending,
		Provider:     ProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewProviderAccount builds a social-login account. The provider has already
// verified the email, so the account starts active and verified, and it
// carries no password hash.
func NewProviderAccount(provider, providerID, email, firstName, lastName string) (*Account, error) {
	if provider == "" || provider == ProviderLocal {
		return nil, fmt.Errorf("store: provider account requires a non-local provider tag")
	}
	if providerID == "" {
		return nil, fmt.Errorf("store: provider account requires a provider-assigned id")
	}
	now := time.Now().UTC()
	return &Account{
		ID:         uuid.NewString(),
		Email:      NormalizeEmail(email),
		FirstName:  firstName,
		LastName:   lastName,
		Verified:   true,
		Status:     StatusActive,
		Provider:   provider,
		ProviderID: providerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HasPassword reports whether password login is possible at all.
func (a *Account) HasPassword() bool { return a.PasswordHash != "" }

// Loggable reports whether the account may receive tokens: verified and
// active, not pending or suspended.
func (a *Account) Loggable() bool {
	return a.Verified && a.Status == StatusActive
}

// Activate marks the account verified and moves pending -> active.
// Suspended accounts stay suspended.
func (a *Account) Activate() {
	a.Verified = true
	if a.Status == StatusPending {
		a.Status = StatusActive
	}
	a.UpdatedAt = time.Now().UTC()
}

// LinkProvider attaches a social login to an existing account.
func (a *Account) LinkProvider(provider, providerID string) {
	a.Provider = provider
	a.ProviderID = providerID
	a.UpdatedAt = time.Now().UTC()
}

// TouchLogin records a successful login.
func (a *Account) TouchLogin(at time.Time) {
	t := at.UTC()
	a.LastLoginAt = &t
	a.UpdatedAt = t
}

// FullName joins the display name fields.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
