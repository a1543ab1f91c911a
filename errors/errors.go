package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// Error is the single failure value used across the engine.
type Error struct {
	// Kind classifies the failure for boundary switching.
	Kind Kind `json:"code"`
	// Message is safe to show to the caller.
	Message string `json:"message"`
	// HTTPStatus is the recommended status for a HTTP boundary.
	HTTPStatus int `json:"-"`
	// Details carries structured, caller-safe context (field errors,
	// retry hints). Secrets and token values must never be placed here.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error, for logs only.
	Cause error `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetail sets one detail key and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New builds an *Error from its parts.
func New(kind Kind, message string, httpStatus int) *Error {
	return &Error{Kind: kind, Message: message, HTTPStatus: httpStatus}
}

// genericCredentialsMessage is the one message every credential and token
// failure shares, so responses cannot be used to enumerate accounts.
const genericCredentialsMessage = "invalid credentials"

// Validation reports malformed input.
func Validation(message string) *Error {
	return New(KindValidation, message, http.StatusBadRequest)
}

// InvalidCredentials reports a failed login without revealing which check
// failed.
func InvalidCredentials() *Error {
	return New(KindAuthentication, genericCredentialsMessage, http.StatusUnauthorized)
}

// Unauthorized reports a missing or unacceptable bearer credential.
func Unauthorized() *Error {
	return New(KindAuthentication, genericCredentialsMessage, http.StatusUnauthorized)
}

// Forbidden reports an authenticated caller that is not permitted.
func Forbidden(reason string) *Error {
	if reason == "" {
		reason = "account is not permitted to perform this action"
	}
	return New(KindAuthorization, reason, http.StatusForbidden)
}

// TokenExpired reports a token past its expiry. The message stays generic;
// the kind is for logs and telemetry.
func TokenExpired() *Error {
	return New(KindTokenExpired, genericCredentialsMessage, http.StatusUnauthorized)
}

// InvalidToken reports a malformed, badly-signed, or mismatched token.
func InvalidToken() *Error {
	return New(KindInvalidToken, genericCredentialsMessage, http.StatusUnauthorized)
}

// NotFound reports an absent record by resource name.
func NotFound(resource string) *Error {
	e := New(KindNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
	return e.WithDetail("resource", resource)
}

// Conflict reports a uniqueness violation.
func Conflict(resource string) *Error {
	e := New(KindConflict, fmt.Sprintf("%s already exists", resource), http.StatusConflict)
	return e.WithDetail("resource", resource)
}

// RateLimited reports a rejected request with a retry hint.
func RateLimited(retryAfter time.Duration) *Error {
	e := New(KindRateLimited, "too many requests", http.StatusTooManyRequests)
	secs := int64(retryAfter / time.Second)
	if retryAfter%time.Second != 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return e.WithDetail("retry_after_seconds", secs)
}

// Internal reports an engine failure. The cause is preserved for logs and
// never echoed in the message.
func Internal(cause error) *Error {
	e := New(KindInternal, "internal error", http.StatusInternalServerError)
	e.Cause = cause
	return e
}

// As is a re-export of the standard errors.As, so callers of this package do
// not need a second errors import.
func As(err error, target any) bool { return stderrors.As(err, target) }

// Is is a re-export of the standard errors.Is.
func Is(err, target error) bool { return stderrors.Is(err, target) }
