package postgres

import (
	"context"
	"database/sql"
	"fmt"

	stderrors "errors"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

// SingleUseTokenStore implements store.SingleUseTokenStore over
// PostgreSQL with the same conditional-UPDATE consumption as refresh
// tokens.
type SingleUseTokenStore struct {
	db DBTX
}

// NewSingleUseTokenStore constructs a single-use token store bound to
// the given DBTX.
func NewSingleUseTokenStore(db DBTX) *SingleUseTokenStore {
	return &SingleUseTokenStore{db: db}
}

func (r *SingleUseTokenStore) Save(ctx context.Context, token *store.SingleUseToken) error {
	query := `
		INSERT INTO single_use_tokens (id, account_id, email, purpose, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.AccountID, token.Email, token.Purpose, token.TokenHash,
		token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	return nil
}

func (r *SingleUseTokenStore) Consume(ctx context.Context, tokenHash string, purpose store.Purpose) (*store.SingleUseToken, error) {
	query := `
		UPDATE single_use_tokens
		SET used_at = now()
		WHERE token_hash = $1 AND purpose = $2 AND used_at IS NULL
		RETURNING id, account_id, email, purpose, token_hash, expires_at, used_at, created_at
	`
	t := &store.SingleUseToken{}
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash, purpose).
		Scan(&t.ID, &t.AccountID, &t.Email, &t.Purpose, &t.TokenHash, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("token")
		}
		return nil, errors.Internal(fmt.Errorf("db error: %w", err))
	}
	if usedAt.Valid {
		u := usedAt.Time
		t.UsedAt = &u
	}
	return t, nil
}

func (r *SingleUseTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM single_use_tokens
		WHERE expires_at <= now()
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, errors.Internal(fmt.Errorf("db error: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Internal(fmt.Errorf("db error: %w", err))
	}
	return n, nil
}
