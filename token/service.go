package token

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/keremavci/authkit/errors"
)

// Kind distinguishes access from refresh tokens inside the signed payload,
// so one can never be presented where the other is expected.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the signed payload. Subject carries the account id, ID the
// random token id (jti).
type Claims struct {
	gojwt.RegisteredClaims
	Kind Kind `json:"kind"`
}

// AccountID returns the token subject.
func (c *Claims) AccountID() string { return c.Subject }

// Service signs and verifies tokens with a shared secret.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService creates a token service.
func NewService(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, now: time.Now}, nil
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *Service) AccessTokenTTL() time.Duration { return s.cfg.AccessTokenTTL }

// RefreshTokenTTL returns the configured refresh token lifetime.
func (s *Service) RefreshTokenTTL() time.Duration { return s.cfg.RefreshTokenTTL }

// Sign issues a token for subject with the given kind and ttl.
func (s *Service) Sign(subject string, kind Kind, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", errors.Validation("token ttl must be positive")
	}
	now := s.now()
	claims := &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			Audience:  gojwt.ClaimStrings{s.cfg.Audience},
			ID:        uuid.NewString(),
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}

	signed, err := gojwt.NewWithClaims(s.cfg.signingMethod(), claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", errors.Internal(fmt.Errorf("sign token: %w", err))
	}
	return signed, nil
}

// SignAccess issues an access token with the configured TTL.
func (s *Service) SignAccess(subject string) (string, error) {
	return s.Sign(subject, KindAccess, s.cfg.AccessTokenTTL)
}

// SignRefresh issues a signed refresh token with the configured TTL.
func (s *Service) SignRefresh(subject string) (string, error) {
	return s.Sign(subject, KindRefresh, s.cfg.RefreshTokenTTL)
}

// Verify parses and validates raw. Signature, issuer, audience, and expiry
// are all checked; failures come back as invalid-token or token-expired
// errors and nothing else.
func (s *Service) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := gojwt.ParseWithClaims(raw, claims,
		func(t *gojwt.Token) (any, error) {
			return []byte(s.cfg.Secret), nil
		},
		gojwt.WithValidMethods([]string{string(HS256), string(HS384), string(HS512)}),
		gojwt.WithIssuer(s.cfg.Issuer),
		gojwt.WithAudience(s.cfg.Audience),
		gojwt.WithIssuedAt(),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.TokenExpired().WithCause(err)
		}
		return nil, errors.InvalidToken().WithCause(err)
	}
	if !tok.Valid {
		return nil, errors.InvalidToken()
	}
	return claims, nil
}

// VerifyKind verifies raw and additionally requires the embedded kind to
// match. A refresh token presented as an access token is invalid, not merely
// unauthorized.
func (s *Service) VerifyKind(raw string, kind Kind) (*Claims, error) {
	claims, err := s.Verify(raw)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, errors.InvalidToken().WithCause(fmt.Errorf("token kind %q, want %q", claims.Kind, kind))
	}
	return claims, nil
}
