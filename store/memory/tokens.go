package memory

import (
	"context"
	"sync"
	"time"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

// RefreshTokenStore keeps refresh token records keyed by value hash.
// Consume marks records used under the write lock, so at most one
// caller ever receives a given record.
type RefreshTokenStore struct {
	mu     sync.Mutex
	byHash map[string]*store.RefreshToken
	now    func() time.Time
}

// NewRefreshTokenStore returns an empty refresh token store.
func NewRefreshTokenStore() *RefreshTokenStore {
	return &RefreshTokenStore{
		byHash: make(map[string]*store.RefreshToken),
		now:    time.Now,
	}
}

func cloneRefresh(t *store.RefreshToken) *store.RefreshToken {
	c := *t
	if t.UsedAt != nil {
		u := *t.UsedAt
		c.UsedAt = &u
	}
	return &c
}

func (s *RefreshTokenStore) Save(_ context.Context, token *store.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byHash[token.TokenHash]; exists {
		return errors.Conflict("refresh token")
	}
	s.byHash[token.TokenHash] = cloneRefresh(token)
	return nil
}

func (s *RefreshTokenStore) Consume(_ context.Context, tokenHash string) (*store.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[tokenHash]
	if !ok || t.Used() {
		return nil, errors.NotFound("refresh token")
	}
	used := s.now().UTC()
	t.UsedAt = &used
	return cloneRefresh(t), nil
}

func (s *RefreshTokenStore) DeleteAllForAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash, t := range s.byHash {
		if t.AccountID == accountID {
			delete(s.byHash, hash)
		}
	}
	return nil
}

func (s *RefreshTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for hash, t := range s.byHash {
		if t.Expired(now) {
			delete(s.byHash, hash)
			n++
		}
	}
	return n, nil
}

// SingleUseTokenStore keeps verification and reset token records keyed
// by value hash.
type SingleUseTokenStore struct {
	mu     sync.Mutex
	byHash map[string]*store.SingleUseToken
	now    func() time.Time
}

// NewSingleUseTokenStore returns an empty single-use token store.
func NewSingleUseTokenStore() *SingleUseTokenStore {
	return &SingleUseTokenStore{
		byHash: make(map[string]*store.SingleUseToken),
		now:    time.Now,
	}
}

func cloneSingleUse(t *store.SingleUseToken) *store.SingleUseToken {
	c := *t
	if t.UsedAt != nil {
		u := *t.UsedAt
		c.UsedAt = &u
	}
	return &c
}

func (s *SingleUseTokenStore) Save(_ context.Context, token *store.SingleUseToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byHash[token.TokenHash]; exists {
		return errors.Conflict("token")
	}
	s.byHash[token.TokenHash] = cloneSingleUse(token)
	return nil
}

func (s *SingleUseTokenStore) Consume(_ context.Context, tokenHash string, purpose store.Purpose) (*store.SingleUseToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byHash[tokenHash]
	if !ok || t.Used() || t.Purpose != purpose {
		return nil, errors.NotFound("token")
	}
	used := s.now().UTC()
	t.UsedAt = &used
	return cloneSingleUse(t), nil
}

func (s *SingleUseTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	var n int64
	for hash, t := range s.byHash {
		if t.Expired(now) {
			delete(s.byHash, hash)
			n++
		}
	}
	return n, nil
}
