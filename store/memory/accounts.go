package memory

import (
	"context"
	"sync"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

// AccountStore keeps accounts in maps keyed by id, email, and provider
// identity. All methods copy records on the way in and out so callers
// cannot mutate stored state through shared pointers.
type AccountStore struct {
	mu         sync.RWMutex
	byID       map[string]*store.Account
	byEmail    map[string]string
	byProvider map[string]string
}

// NewAccountStore returns an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:       make(map[string]*store.Account),
		byEmail:    make(map[string]string),
		byProvider: make(map[string]string),
	}
}

func providerKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

func cloneAccount(a *store.Account) *store.Account {
	c := *a
	if a.LastLoginAt != nil {
		t := *a.LastLoginAt
		c.LastLoginAt = &t
	}
	return &c
}

func (s *AccountStore) FindByEmail(_ context.Context, email string) (*store.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[store.NormalizeEmail(email)]
	if !ok {
		return nil, errors.NotFound("account")
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *AccountStore) FindByID(_ context.Context, id string) (*store.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, errors.NotFound("account")
	}
	return cloneAccount(a), nil
}

func (s *AccountStore) FindByProvider(_ context.Context, provider, providerID string) (*store.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byProvider[providerKey(provider, providerID)]
	if !ok {
		return nil, errors.NotFound("account")
	}
	return cloneAccount(s.byID[id]), nil
}

func (s *AccountStore) Save(_ context.Context, account *store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := store.NormalizeEmail(account.Email)
	if _, exists := s.byEmail[email]; exists {
		return errors.Conflict("email")
	}
	if _, exists := s.byID[account.ID]; exists {
		return errors.Conflict("account")
	}
	c := cloneAccount(account)
	s.byID[c.ID] = c
	s.byEmail[email] = c.ID
	if c.Provider != store.ProviderLocal && c.ProviderID != "" {
		s.byProvider[providerKey(c.Provider, c.ProviderID)] = c.ID
	}
	return nil
}

func (s *AccountStore) Update(_ context.Context, account *store.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.byID[account.ID]
	if !ok {
		return errors.NotFound("account")
	}
	delete(s.byEmail, store.NormalizeEmail(old.Email))
	if old.Provider != store.ProviderLocal && old.ProviderID != "" {
		delete(s.byProvider, providerKey(old.Provider, old.ProviderID))
	}
	c := cloneAccount(account)
	s.byID[c.ID] = c
	s.byEmail[store.NormalizeEmail(c.Email)] = c.ID
	if c.Provider != store.ProviderLocal && c.ProviderID != "" {
		s.byProvider[providerKey(c.Provider, c.ProviderID)] = c.ID
	}
	return nil
}
