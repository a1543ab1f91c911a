package store

import "context"

// AccountStore persists identity records. Implementations return a
// KindNotFound error for absent records, never (nil, nil).
type AccountStore interface {
	// FindByEmail looks up the account for an already-normalized email.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByID looks up an account by id.
	FindByID(ctx context.Context, id string) (*Account, error)

	// FindByProvider looks up the account linked to a social login.
	FindByProvider(ctx context.Context, provider, providerID string) (*Account, error)

	// Save inserts a new account. Duplicate emails fail with KindConflict.
	Save(ctx context.Context, account *Account) error

	// Update rewrites a stored account.
	Update(ctx context.Context, account *Account) error
}

// RefreshTokenStore persists refresh token records.
type RefreshTokenStore interface {
	// Save inserts a new token record.
	Save(ctx context.Context, token *RefreshToken) error

	// Consume atomically marks the record with the given value hash as used
	// and returns it. Absent or already-used records fail with KindNotFound;
	// the returned record may be expired, which the caller must check. A
	// second concurrent Consume on the same hash observes KindNotFound;
	// this is the rotation double-spend guard.
	Consume(ctx context.Context, tokenHash string) (*RefreshToken, error)

	// DeleteAllForAccount revokes every refresh token of one account.
	DeleteAllForAccount(ctx context.Context, accountID string) error

	// DeleteExpired discards records past expiry, returning how many.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SingleUseTokenStore persists verification and reset tokens.
type SingleUseTokenStore interface {
	// Save inserts a new token record.
	Save(ctx context.Context, token *SingleUseToken) error

	// Consume atomically marks the record with the given value hash and
	// purpose as used and returns it. Absent, already-used, or
	// purpose-mismatched records fail with KindNotFound; expiry is the
	// caller's check. Marking used is terminal: a second Consume on the
	// same value always fails, with no grace window.
	Consume(ctx context.Context, tokenHash string, purpose Purpose) (*SingleUseToken, error)

	// DeleteExpired discards records past expiry, returning how many.
	DeleteExpired(ctx context.Context) (int64, error)
}
