package store

import (
	"testing"
	"time"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"User@Example.COM", "user@example.com"},
		{"  padded@example.com  ", "padded@example.com"},
		{"already@example.com", "already@example.com"},
	}
	for _, tc := range tests {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewLocalAccount(t *testing.T) {
	a, err := NewLocalAccount("User@Example.com", "$2a$12$hash", "Ada", "Lovelace")
	if err != nil {
		t.Fatalf("NewLocalAccount: %v", err)
	}
	if a.ID == "" {
		t.Error("id should be assigned")
	}
	if a.Email != "user@example.com" {
		t.Errorf("email = %s, should be normalized", a.Email)
	}
	if a.Status != StatusPending || a.Verified {
		t.Error("local accounts start pending and unverified")
	}
	if a.Provider != ProviderLocal {
		t.Errorf("provider = %s, want local", a.Provider)
	}
	if a.Loggable() {
		t.Error("pending account must not be loggable")
	}
}

func TestNewLocalAccountRequiresHash(t *testing.T) {
	if _, err := NewLocalAccount("u@example.com", "", "", ""); err == nil {
		t.Fatal("local account without a password hash must be rejected")
	}
}

func TestNewProviderAccount(t *testing.T) {
	a, err := NewProviderAccount("google", "sub-123", "U@example.com", "Ada", "")
	if err != nil {
		t.Fatalf("NewProviderAccount: %v", err)
	}
	if !a.Verified || a.Status != StatusActive {
		t.Error("provider accounts start verified and active")
	}
	if a.HasPassword() {
		t.Error("provider accounts carry no password hash")
	}
	if !a.Loggable() {
		t.Error("freshly created provider account should be loggable")
	}
}

func TestNewProviderAccountRejectsLocalTag(t *testing.T) {
	if _, err := NewProviderAccount(ProviderLocal, "id", "u@example.com", "", ""); err == nil {
		t.Error("local tag is not a social provider")
	}
	if _, err := NewProviderAccount("google", "", "u@example.com", "", ""); err == nil {
		t.Error("provider id is required")
	}
}

func TestActivateTransitions(t *testing.T) {
	a, _ := NewLocalAccount("u@example.com", "hash", "", "")
	a.Activate()
	if a.Status != StatusActive || !a.Verified {
		t.Error("activate should move pending -> active and set verified")
	}
	if !a.Loggable() {
		t.Error("active verified account should be loggable")
	}

	// Suspension is terminal: activate does not resurrect it.
	a.Status = StatusSuspended
	a.Activate()
	if a.Status != StatusSuspended {
		t.Error("activate must not unsuspend")
	}
	if a.Loggable() {
		t.Error("suspended account must not be loggable")
	}
}

func TestTouchLoginAndFullName(t *testing.T) {
	a, _ := NewLocalAccount("u@example.com", "hash", "Ada", "Lovelace")
	if a.LastLoginAt != nil {
		t.Fatal("new account has no last login")
	}
	at := time.Now()
	a.TouchLogin(at)
	if a.LastLoginAt == nil || !a.LastLoginAt.Equal(at.UTC()) {
		t.Error("TouchLogin should record the instant")
	}
	if a.FullName() != "Ada Lovelace" {
		t.Errorf("FullName = %q", a.FullName())
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	rt := NewRefreshToken("acc-1", "hash", time.Hour)
	if rt.Used() {
		t.Error("new token is unused")
	}
	if rt.Expired(time.Now()) {
		t.Error("token should not be expired yet")
	}
	if !rt.Expired(rt.ExpiresAt) {
		t.Error("expiry is strict: the boundary instant counts as expired")
	}
}

func TestSingleUseTokenLifecycle(t *testing.T) {
	tok := NewSingleUseToken("acc-1", "U@Example.com", PurposeVerification, "hash", 24*time.Hour)
	if tok.Email != "u@example.com" {
		t.Errorf("email = %s, should be normalized", tok.Email)
	}
	if tok.Used() || tok.Expired(time.Now()) {
		t.Error("new token is unused and unexpired")
	}
	reset := NewSingleUseToken("acc-1", "", PurposeReset, "hash2", time.Hour)
	if reset.Purpose != PurposeReset {
		t.Errorf("purpose = %s", reset.Purpose)
	}
}
