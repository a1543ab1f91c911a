package engine

import (
	"time"

	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/password"
	"github.com/keremavci/authkit/store"
	"github.com/keremavci/authkit/telemetry"
	"github.com/keremavci/authkit/token"
)

// Engine runs the authentication flows over pluggable stores.
type Engine struct {
	cfg       Config
	accounts  store.AccountStore
	refresh   store.RefreshTokenStore
	singleUse store.SingleUseTokenStore
	hasher    password.Hasher
	tokens    *token.Service

	notifier Notifier
	log      *logger.Logger
	metrics  *telemetry.Metrics
	now      func() time.Time

	// dummyHash soaks up a password verification when no account
	// matches, so the miss path costs the same as the hit path.
	dummyHash string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the delivery channel for verification and reset
// tokens. Default is NopNotifier.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithLogger sets the logger. Default discards.
func WithLogger(l *logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithMetrics sets the metric instruments. Default records nothing.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock overrides the time source. Test hook.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New builds an Engine.
func New(cfg Config, accounts store.AccountStore, refresh store.RefreshTokenStore,
	singleUse store.SingleUseTokenStore, hasher password.Hasher, tokens *token.Service,
	opts ...Option) (*Engine, error) {

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dummy, err := hasher.Hash("7Qa#zr1!unreachable-sentinel")
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		accounts:  accounts,
		refresh:   refresh,
		singleUse: singleUse,
		hasher:    hasher,
		tokens:    tokens,
		notifier:  NopNotifier{},
		log:       logger.Nop(),
		metrics:   nil,
		now:       time.Now,
		dummyHash: dummy,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// TokenPair is one issued access/refresh pair. RefreshToken is the
// only copy of the opaque value; the engine keeps just its hash.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}
