package engine

import (
	"context"

	"github.com/keremavci/authkit/errors"
	"github.com/keremavci/authkit/logger"
	"github.com/keremavci/authkit/store"
	"github.com/keremavci/authkit/validation"
)

// Registration is a new local account request.
type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// Register creates a pending local account and sends it a verification
// token. The account cannot log in until its email is verified; a lost
// token can be replaced with IssueAndDeliverVerification. Password
// strength rules live in the hasher, so a weak password fails here
// with a validation error.
func (e *Engine) Register(ctx context.Context, reg Registration) (*store.Account, error) {
	if err := validation.Validate(reg); err != nil {
		return nil, err
	}

	hash, err := e.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	acc, err := store.NewLocalAccount(reg.Email, hash, reg.FirstName, reg.LastName)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	if err := e.accounts.Save(ctx, acc); err != nil {
		return nil, err
	}

	// The account exists either way; a failed token issue only means
	// the owner has to request another.
	if err := e.IssueAndDeliverVerification(ctx, acc.Email); err != nil {
		e.log.Error("verification issue after registration failed",
			logger.ErrorFields("issue_verification", err),
			logger.Fields(logger.FieldAccountID, acc.ID))
	}

	e.log.Info("account registered", logger.Fields(
		logger.FieldAccountID, acc.ID,
		logger.FieldEmail, logger.Mask(acc.Email),
	))
	return acc, nil
}
