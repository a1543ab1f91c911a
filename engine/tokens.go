package engine

import (
	"context"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/password"
	"github.com/keremavci/authkit/store"
)

// IssueTokens mints an access/refresh pair for an account. The
// refresh token is an opaque random value; only its hash is persisted.
func (e *Engine) IssueTokens(ctx context.Context, accountID string) (*TokenPair, error) {
	access, err := e.tokens.SignAccess(accountID)
	if err != nil {
		return nil, err
	}

	raw, err := password.Token(e.cfg.RefreshTokenBytes)
	if err != nil {
		return nil, errors.Internal(err)
	}

	rec := store.NewRefreshToken(accountID, hashOpaque(raw), e.tokens.RefreshTokenTTL())
	if err := e.refresh.Save(ctx, rec); err != nil {
		return nil, err
	}

	now := e.now()
	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     raw,
		AccessExpiresAt:  now.Add(e.tokens.AccessTokenTTL()),
		RefreshExpiresAt: rec.ExpiresAt,
	}, nil
}

// RotateRefreshToken redeems a refresh token for a fresh pair. The
// presented token is consumed first, so two racing rotations of the
// same value produce exactly one winner; the loser sees the same
// invalid-token error as a forged value. A consumed-but-expired token
// reports expiry and yields nothing.
func (e *Engine) RotateRefreshToken(ctx context.Context, rawToken string) (*TokenPair, error) {
	if rawToken == "" {
		return nil, errors.InvalidToken()
	}

	rec, err := e.refresh.Consume(ctx, hashOpaque(rawToken))
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			e.metrics.RecordRotation(ctx, "rejected")
			return nil, errors.InvalidToken()
		}
		return nil, err
	}

	if rec.Expired(e.now()) {
		e.metrics.RecordRotation(ctx, "rejected")
		return nil, errors.TokenExpired()
	}

	acc, err := e.accounts.FindByID(ctx, rec.AccountID)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			e.metrics.RecordRotation(ctx, "rejected")
			return nil, errors.InvalidToken()
		}
		return nil, err
	}
	if !acc.Loggable() {
		e.metrics.RecordRotation(ctx, "rejected")
		return nil, errors.Unauthorized()
	}

	pair, err := e.IssueTokens(ctx, acc.ID)
	if err != nil {
		return nil, err
	}

	e.metrics.RecordRotation(ctx, "ok")
	e.log.Debug("refresh token rotated", logger.Fields(
		logger.FieldAccountID, acc.ID,
	))
	return pair, nil
}

// RevokeAllSessions discards every refresh token of one account.
func (e *Engine) RevokeAllSessions(ctx context.Context, accountID string) error {
	return e.refresh.DeleteAllForAccount(ctx, accountID)
}

// PurgeExpired discards expired refresh and single-use token records.
// Intended to run on a janitor schedule.
func (e *Engine) PurgeExpired(ctx context.Context) (int64, error) {
	nRefresh, err := e.refresh.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	nSingle, err := e.singleUse.DeleteExpired(ctx)
	if err != nil {
		return nRefresh, err
	}
	return nRefresh + nSingle, nil
}
