package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/store"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mock, db
}

func accountRows(a *store.Account) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name",
		"verified", "status", "provider", "provider_id", "last_login_at",
		"created_at", "updated_at",
	})
	rows.AddRow(a.ID, a.Email, a.PasswordHash, a.FirstName, a.LastName,
		a.Verified, a.Status, a.Provider, a.ProviderID, a.LastLoginAt,
		a.CreatedAt, a.UpdatedAt)
	return rows
}

func TestAccountFindByEmail(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	a, err := store.NewLocalAccount("Known@Example.com", "hash", "Ada", "Lovelace")
	require.NoError(t, err)

	q := `(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("known@example.com").
		WillReturnRows(accountRows(a))

	got, err := repo.FindByEmail(context.Background(), "KNOWN@example.com")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
	require.Equal(t, "known@example.com", got.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountFindByEmailNotFound(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	q := `(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+email\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	require.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestAccountFindByProvider(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	a, err := store.NewProviderAccount("google", "sub-9", "p@example.com", "", "")
	require.NoError(t, err)

	q := `(?s)^\s*SELECT\s+id,\s*email,.*FROM\s+accounts\s+WHERE\s+provider\s*=\s*\$1\s+AND\s+provider_id\s*=\s*\$2\s*$`
	mock.ExpectQuery(q).
		WithArgs("google", "sub-9").
		WillReturnRows(accountRows(a))

	got, err := repo.FindByProvider(context.Background(), "google", "sub-9")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
}

func TestAccountSaveDuplicateEmail(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	a, err := store.NewLocalAccount("dup@example.com", "hash", "", "")
	require.NoError(t, err)

	q := `(?s)^\s*INSERT\s+INTO\s+accounts\b`
	mock.ExpectExec(q).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	err = repo.Save(context.Background(), a)
	require.True(t, errors.IsKind(err, errors.KindConflict), "got %v", err)
}

func TestAccountSave(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	a, err := store.NewLocalAccount("new@example.com", "hash", "", "")
	require.NoError(t, err)

	q := `(?s)^\s*INSERT\s+INTO\s+accounts\b.*VALUES\s*\(\$1,.*\$12\)\s*$`
	mock.ExpectExec(q).
		WithArgs(a.ID, "new@example.com", sqlmock.AnyArg(), "", "", false,
			store.StatusPending, store.ProviderLocal, sqlmock.AnyArg(), nil,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountUpdateMissing(t *testing.T) {
	mock, db := newMock(t)
	repo := NewAccountStore(db)

	a, err := store.NewLocalAccount("gone@example.com", "hash", "", "")
	require.NoError(t, err)

	q := `(?s)^\s*UPDATE\s+accounts\s+SET\b.*WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.Update(context.Background(), a)
	require.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestRefreshConsume(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRefreshTokenStore(db)

	now := time.Now().UTC()
	used := now
	q := `(?s)^\s*UPDATE\s+refresh_tokens\s+SET\s+used_at\s*=\s*now\(\)\s+WHERE\s+token_hash\s*=\s*\$1\s+AND\s+used_at\s+IS\s+NULL\s+RETURNING\b`
	rows := sqlmock.NewRows([]string{"id", "account_id", "token_hash", "expires_at", "used_at", "created_at"}).
		AddRow("tok-1", "acc-1", "hash-1", now.Add(time.Hour), used, now)
	mock.ExpectQuery(q).
		WithArgs("hash-1").
		WillReturnRows(rows)

	got, err := repo.Consume(context.Background(), "hash-1")
	require.NoError(t, err)
	require.Equal(t, "acc-1", got.AccountID)
	require.True(t, got.Used())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshConsumeAlreadyUsed(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRefreshTokenStore(db)

	q := `(?s)^\s*UPDATE\s+refresh_tokens\s+SET\s+used_at\s*=\s*now\(\)\s+WHERE\b`
	mock.ExpectQuery(q).
		WithArgs("hash-spent").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "hash-spent")
	require.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestRefreshSave(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRefreshTokenStore(db)

	rt := store.NewRefreshToken("acc-1", "hash-new", time.Hour)
	q := `(?s)^\s*INSERT\s+INTO\s+refresh_tokens\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`
	mock.ExpectExec(q).
		WithArgs(rt.ID, "acc-1", "hash-new", rt.ExpiresAt, rt.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), rt))
}

func TestRefreshDeleteAllForAccount(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRefreshTokenStore(db)

	q := `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+account_id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).
		WithArgs("acc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.DeleteAllForAccount(context.Background(), "acc-1"))
}

func TestRefreshDeleteExpired(t *testing.T) {
	mock, db := newMock(t)
	repo := NewRefreshTokenStore(db)

	q := `(?s)^\s*DELETE\s+FROM\s+refresh_tokens\s+WHERE\s+expires_at\s*<=\s*now\(\)\s*$`
	mock.ExpectExec(q).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestSingleUseConsume(t *testing.T) {
	mock, db := newMock(t)
	repo := NewSingleUseTokenStore(db)

	now := time.Now().UTC()
	q := `(?s)^\s*UPDATE\s+single_use_tokens\s+SET\s+used_at\s*=\s*now\(\)\s+WHERE\s+token_hash\s*=\s*\$1\s+AND\s+purpose\s*=\s*\$2\s+AND\s+used_at\s+IS\s+NULL\s+RETURNING\b`
	rows := sqlmock.NewRows([]string{"id", "account_id", "email", "purpose", "token_hash", "expires_at", "used_at", "created_at"}).
		AddRow("tok-1", "acc-1", "u@example.com", store.PurposeReset, "hash-r", now.Add(time.Hour), now, now)
	mock.ExpectQuery(q).
		WithArgs("hash-r", store.PurposeReset).
		WillReturnRows(rows)

	got, err := repo.Consume(context.Background(), "hash-r", store.PurposeReset)
	require.NoError(t, err)
	require.Equal(t, store.PurposeReset, got.Purpose)
	require.True(t, got.Used())
}

func TestSingleUseConsumeMissing(t *testing.T) {
	mock, db := newMock(t)
	repo := NewSingleUseTokenStore(db)

	q := `(?s)^\s*UPDATE\s+single_use_tokens\s+SET\b`
	mock.ExpectQuery(q).
		WithArgs("nope", store.PurposeVerification).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Consume(context.Background(), "nope", store.PurposeVerification)
	require.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestMigrateRunsGoose(t *testing.T) {
	_, db := newMock(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var gotDir string
	gooseUpContext = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, Migrate(context.Background(), db))
	require.Equal(t, "migrations", gotDir)
}
