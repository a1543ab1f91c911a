package postgres

import (
	"context"
	"database/sql"
	"fmt"

	stderrors "errors"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

// RefreshTokenStore implements store.RefreshTokenStore over PostgreSQL.
// Consume relies on a conditional UPDATE, so the single-use guarantee
// holds across concurrent connections.
type RefreshTokenStore struct {
	db DBTX
}

// NewRefreshTokenStore constructs a refresh token store bound to the
// given DBTX.
func NewRefreshTokenStore(db DBTX) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

func (r *RefreshTokenStore) Save(ctx context.Context, token *store.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, account_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.AccountID, token.TokenHash, token.ExpiresAt, token.CreatedAt)
	if err != nil {
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	return nil
}

// Consume marks the row used and returns it in one statement. The
// used_at guard means only one of any number of concurrent callers
// sees the row; the rest fall into the no-rows branch.
func (r *RefreshTokenStore) Consume(ctx context.Context, tokenHash string) (*store.RefreshToken, error) {
	query := `
		UPDATE refresh_tokens
		SET used_at = now()
		WHERE token_hash = $1 AND used_at IS NULL
		RETURNING id, account_id, token_hash, expires_at, used_at, created_at
	`
	t := &store.RefreshToken{}
	var usedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, tokenHash).
		Scan(&t.ID, &t.AccountID, &t.TokenHash, &t.ExpiresAt, &usedAt, &t.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("refresh token")
		}
		return nil, errors.Internal(fmt.Errorf("db error: %w", err))
	}
	if usedAt.Valid {
		u := usedAt.Time
		t.UsedAt = &u
	}
	return t, nil
}

func (r *RefreshTokenStore) DeleteAllForAccount(ctx context.Context, accountID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE account_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, accountID); err != nil {
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	return nil
}

func (r *RefreshTokenStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM refresh_tokens
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
