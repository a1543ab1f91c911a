// Package validation checks engine inputs before any credential work runs.
//
// Struct tag validation (go-playground/validator) covers the request shapes
// the engine accepts:
//
//	type credentials struct {
//	    Email    string `json:"email" validate:"required,email,max=255"`
//	    Password string `json:"password" validate:"required"`
//	}
//	if err := validation.Validate(creds); err != nil { ... }
//
// Failures come back as *errors.Error with KindValidation and per-field
// details, ready for the boundary to serialize. Field values are never
// included in messages — a failed password check must not echo the password.
package validation
