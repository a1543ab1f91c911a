package engine

import (
	"context"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/password"
	"github.com/keremavci/authkit/store"
)

// IssueAndDeliverVerification mints an email verification token and
// hands it to the notifier. Unknown and already-verified addresses
// return nil with nothing sent, so the call reveals nothing about
// which emails are registered.
func (e *Engine) IssueAndDeliverVerification(ctx context.Context, email string) error {
	email = store.NormalizeEmail(email)
	acc, err := e.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil
		}
		return err
	}
	if acc.Verified {
		return nil
	}

	raw, err := password.Token(e.cfg.SingleUseTokenBytes)
	if err != nil {
		return errors.Internal(err)
	}
	rec := store.NewSingleUseToken(acc.ID, email, store.PurposeVerification, hashOpaque(raw), e.cfg.VerificationTokenTTL)
	if err := e.singleUse.Save(ctx, rec); err != nil {
		return err
	}

	// Delivery failures never fail the issue; the token is already
	// persisted and the owner can request another.
	if err := e.notifier.DeliverVerification(ctx, email, raw); err != nil {
		e.log.Error("verification delivery failed",
			logger.ErrorFields("deliver_verification", err),
			logger.Fields(logger.FieldAccountID, acc.ID))
	}

	e.log.Info("verification issued", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldEmail, logger.Mask(email),
	))
	return nil
}

// ConsumeVerification redeems a verification token and activates the
// account. The token is spent on presentation: even an expired one is
// gone afterwards, and a second presentation of any spent token fails.
func (e *Engine) ConsumeVerification(ctx context.Context, rawToken string) (*store.Account, error) {
	if rawToken == "" {
		return nil, errors.InvalidToken()
	}

	rec, err := e.singleUse.Consume(ctx, hashOpaque(rawToken), store.PurposeVerification)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			e.metrics.RecordSingleUse(ctx, string(store.PurposeVerification), "rejected")
			return nil, errors.InvalidToken()
		}
		return nil, err
	}
	if rec.Expired(e.now()) {
		e.metrics.RecordSingleUse(ctx, string(store.PurposeVerification), "rejected")
		return nil, errors.TokenExpired()
	}

	acc, err := e.accounts.FindByID(ctx, rec.AccountID)
	if err != nil {
		return nil, err
	}
	acc.Activate()
	if err := e.accounts.Update(ctx, acc); err != nil {
		return nil, err
	}

	e.metrics.RecordSingleUse(ctx, string(store.PurposeVerification), "ok")
	e.log.Info("email verified", logger.Fields(
		logger.FieldAccountID, acc.ID,
	))
	return acc, nil
}

// IssueAndDeliverReset mints a password reset token and hands it to
// the notifier. Unknown addresses and accounts without a password get
// nil with nothing sent.
func (e *Engine) IssueAndDeliverReset(ctx context.Context, email string) error {
	email = store.NormalizeEmail(email)
	acc, err := e.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			return nil
		}
		return err
	}
	if !acc.HasPassword() {
		return nil
	}

	raw, err := password.Token(e.cfg.SingleUseTokenBytes)
	if err != nil {
		return errors.Internal(err)
	}
	rec := store.NewSingleUseToken(acc.ID, email, store.PurposeReset, hashOpaque(raw), e.cfg.ResetTokenTTL)
	if err := e.singleUse.Save(ctx, rec); err != nil {
		return err
	}

	if err := e.notifier.DeliverReset(ctx, email, raw); err != nil {
		e.log.Error("reset delivery failed",
			logger.ErrorFields("deliver_reset", err),
			logger.Fields(logger.FieldAccountID, acc.ID))
	}

	e.log.Info("reset issued", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldEmail, logger.Mask(email),
	))
	return nil
}

// ConsumeReset redeems a reset token and installs a new password. All
// of the account's refresh tokens are revoked, ending any session an
// attacker may hold.
func (e *Engine) ConsumeReset(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" {
		return errors.InvalidToken()
	}

	rec, err := e.singleUse.Consume(ctx, hashOpaque(rawToken), store.PurposeReset)
	if err != nil {
		if errors.IsKind(err, errors.KindNotFound) {
			e.metrics.RecordSingleUse(ctx, string(store.PurposeReset), "rejected")
			return errors.InvalidToken()
		}
		return err
	}
	if rec.Expired(e.now()) {
		e.metrics.RecordSingleUse(ctx, string(store.PurposeReset), "rejected")
		return errors.TokenExpired()
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	acc, err := e.accounts.FindByID(ctx, rec.AccountID)
	if err != nil {
		return err
	}
	acc.PasswordHash = hash
	acc.UpdatedAt = e.now().UTC()
	if err := e.accounts.Update(ctx, acc); err != nil {
		return err
	}

	if err := e.refresh.DeleteAllForAccount(ctx, acc.ID); err != nil {
		e.log.WithError(err).Error("revoking sessions after reset failed", logger.Fields(
			logger.FieldAccountID, acc.ID,
		))
		return err
	}

	e.metrics.RecordSingleUse(ctx, string(store.PurposeReset), "ok")
	e.log.Info("password reset", logger.Fields(
		logger.FieldAccountID, acc.ID,
	))
	return nil
}
