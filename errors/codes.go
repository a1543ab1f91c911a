package errors

// Kind is a machine-readable classification of an engine failure.
// Boundary layers switch on it; response bodies carry it as a stable code.
type Kind string

const (
	// KindValidation marks malformed input recovered at the boundary.
	KindValidation Kind = "validation"

	// KindAuthentication marks failed credential or token checks.
	// Always paired with a generic message; never reveals which check failed.
	KindAuthentication Kind = "authentication"

	// KindAuthorization marks an authenticated caller that is not permitted
	// (unverified email, suspended account).
	KindAuthorization Kind = "authorization"

	// KindTokenExpired is an authentication failure distinguished only for
	// logging and telemetry, never in the response body.
	KindTokenExpired Kind = "token_expired"

	// KindInvalidToken is an authentication failure for malformed or
	// badly-signed tokens, distinguished only for logging and telemetry.
	KindInvalidToken Kind = "invalid_token"

	// KindNotFound marks a referenced record that is absent. At the auth
	// boundary it is mapped to the same generic authentication failure.
	KindNotFound Kind = "not_found"

	// KindConflict marks a uniqueness violation (e.g. email already taken).
	KindConflict Kind = "conflict"

	// KindRateLimited marks a request rejected by a rate-limit policy.
	KindRateLimited Kind = "rate_limited"

	// KindInternal marks hashing, signing, or store failures. Fatal to the
	// request; logged with full detail, never echoed to the caller.
	KindInternal Kind = "internal"
)

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
// A nil err returns the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or anything it wraps) carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsAuthFailure reports whether err is any flavor of authentication failure.
// Token-expired and invalid-token errors count: they differ only for logging.
func IsAuthFailure(err error) bool {
	switch KindOf(err) {
	case KindAuthentication, KindTokenExpired, KindInvalidToken:
		return true
	}
	return false
}
