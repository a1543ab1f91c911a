package engine

import (
	"context"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/password"
	"github.com/keremavci/authkit/store"
	"github.com/keremavci/authkit/validation"
)

// Credentials is a password login attempt.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProviderLogin is a social login asserted by an upstream identity
// provider. The caller has already validated the provider's assertion.
type ProviderLogin struct {
	Provider   string `json:"provider" validate:"required,ne=local"`
	ProviderID string `json:"provider_id" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

// Authenticate verifies a password login. Every rejection, whatever
// the cause, is the same generic invalid-credentials error: an
// attacker learns nothing about whether the email exists, whether the
// account is unverified, or whether it is suspended.
func (e *Engine) Authenticate(ctx context.Context, creds Credentials) (*store.Account, error) {
	if err := validation.Validate(creds); err != nil {
		return nil, err
	}

	email := store.NormalizeEmail(creds.Email)
	acc, err := e.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			e.hasher.Verify(creds.Password, e.dummyHash)
			e.metrics.RecordLogin(ctx, store.ProviderLocal, "rejected")
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if !acc.HasPassword() {
		e.hasher.Verify(creds.Password, e.dummyHash)
		e.metrics.RecordLogin(ctx, store.ProviderLocal, "rejected")
		return nil, errors.InvalidCredentials()
	}

	if !e.hasher.Verify(creds.Password, acc.PasswordHash) {
		e.metrics.RecordLogin(ctx, store.ProviderLocal, "rejected")
		return nil, errors.InvalidCredentials()
	}

	if !acc.Loggable() {
		e.metrics.RecordLogin(ctx, store.ProviderLocal, "rejected")
		return nil, errors.InvalidCredentials()
	}

	acc.TouchLogin(e.now())
	if err := e.accounts.Update(ctx, acc); err != nil {
		// Login stands even if the timestamp write fails.
		e.log.WithError(err).Warn("recording login time failed",
			logger.Fields(logger.FieldAccountID, acc.ID))
	}

	e.metrics.RecordLogin(ctx, store.ProviderLocal, "ok")
	e.log.Info("password login", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldEmail, logger.Mask(acc.Email),
	))
	return acc, nil
}

// LoginWithProvider resolves a social login to an account, creating or
// linking one as needed. A suspended account stays rejected no matter
// what the provider asserts.
func (e *Engine) LoginWithProvider(ctx context.Context, login ProviderLogin) (*store.Account, error) {
	if err := validation.Validate(login); err != nil {
		return nil, err
	}

	acc, err := e.accounts.FindByProvider(ctx, login.Provider, login.ProviderID)
	switch {
	case err == nil:
	case errors.IsKind(err, errors.KindNotFound):
		acc, err = e.linkOrCreateProviderAccount(ctx, login)
		if err != nil {
			e.metrics.RecordLogin(ctx, login.Provider, "rejected")
			return nil, err
		}
	default:
		return nil, err
	}

	if acc.Status == store.StatusSuspended {
		e.metrics.RecordLogin(ctx, login.Provider, "rejected")
		return nil, errors.InvalidCredentials()
	}

	acc.TouchLogin(e.now())
	if err := e.accounts.Update(ctx, acc); err != nil {
		e.log.WithError(err).Warn("recording login time failed",
			logger.Fields(logger.FieldAccountID, acc.ID))
	}

	e.metrics.RecordLogin(ctx, login.Provider, "ok")
	e.log.Info("provider login", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldProvider, login.Provider,
	))
	return acc, nil
}

// linkOrCreateProviderAccount attaches the provider identity to the
// account holding the asserted email, or registers a fresh one. The
// provider vouches for the address, so a linked or new account counts
// as verified.
func (e *Engine) linkOrCreateProviderAccount(ctx context.Context, login ProviderLogin) (*store.Account, error) {
	acc, err := e.accounts.FindByEmail(ctx, store.NormalizeEmail(login.Email))
	if err == nil {
		// A suspended account is rejected before any write; the stored
		// record keeps its provider identity and verified flag.
		if acc.Status == store.StatusSuspended {
			return nil, errors.InvalidCredentials()
		}
		acc.LinkProvider(login.Provider, login.ProviderID)
		acc.Activate()
		if err := e.accounts.Update(ctx, acc); err != nil {
			return nil, err
		}
		e.log.Info("provider linked", logger.Fields(
			logger.FieldAccountID, acc.ID,
			logger.FieldProvider, login.Provider,
		))
		return acc, nil
	}
	if !errors.IsKind(err, errors.KindNotFound) {
		return nil, err
	}

	acc, err = store.NewProviderAccount(login.Provider, login.ProviderID, login.Email, login.FirstName, login.LastName)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	if err := e.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}
	e.log.Info("provider account created", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldProvider, login.Provider,
	))
	return acc, nil
}

// hashOpaque derives the storage key for an opaque token value.
func hashOpaque(raw string) string {
	return password.HashSHA256(raw)
}
