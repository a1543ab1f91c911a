package postgres

import (
	"context"
	"database/sql"
	"fmt"

	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

const uniqueViolation = "23505"

// AccountStore implements store.AccountStore over PostgreSQL.
type AccountStore struct {
	db DBTX
}

// NewAccountStore constructs an account store bound to the given DBTX.
func NewAccountStore(db DBTX) *AccountStore {
	return &AccountStore{db: db}
}

const accountColumns = `id, email, password_hash, first_name, last_name,
		verified, status, provider, provider_id, last_login_at, created_at, updated_at`

func scanAccount(row *sql.Row) (*store.Account, error) {
	a := &store.Account{}
	var passwordHash, providerID sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&a.ID, &a.Email, &passwordHash, &a.FirstName, &a.LastName,
		&a.Verified, &a.Status, &a.Provider, &providerID, &lastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("account")
		}
		return nil, errors.Internal(fmt.Errorf("db error: %w", err))
	}
	a.PasswordHash = passwordHash.String
	a.ProviderID = providerID.String
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *AccountStore) FindByEmail(ctx context.Context, email string) (*store.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`
	return scanAccount(r.db.QueryRowContext(ctx, query, store.NormalizeEmail(email)))
}

func (r *AccountStore) FindByID(ctx context.Context, id string) (*store.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *AccountStore) FindByProvider(ctx context.Context, provider, providerID string) (*store.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE provider = $1 AND provider_id = $2
	`
	return scanAccount(r.db.QueryRowContext(ctx, query, provider, providerID))
}

func (r *AccountStore) Save(ctx context.Context, account *store.Account) error {
	query := `
		INSERT INTO accounts (id, email, password_hash, first_name, last_name,
			verified, status, provider, provider_id, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		account.ID, store.NormalizeEmail(account.Email), nullString(account.PasswordHash),
		account.FirstName, account.LastName, account.Verified, account.Status,
		account.Provider, nullString(account.ProviderID), account.LastLoginAt,
		account.CreatedAt, account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Conflict("email")
		}
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	return nil
}

func (r *AccountStore) Update(ctx context.Context, account *store.Account) error {
	query := `
		UPDATE accounts
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
			verified = $6, status = $7, provider = $8, provider_id = $9,
			last_login_at = $10, updated_at = $11
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		account.ID, store.NormalizeEmail(account.Email), nullString(account.PasswordHash),
		account.FirstName, account.LastName, account.Verified, account.Status,
		account.Provider, nullString(account.ProviderID), account.LastLoginAt,
		account.UpdatedAt)
	if err != nil {
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Internal(fmt.Errorf("db error: %w", err))
	}
	if n == 0 {
		return errors.NotFound("account")
	}
	return nil
}
