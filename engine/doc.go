// Package engine composes the credential, token, and store layers into
// the authentication flows: password login, social login, registration,
// token issuance and rotation, email verification, and password reset.
//
// All failure paths that a caller could probe for account existence
// collapse into the same generic authentication error. Refresh tokens
// are opaque random values stored only as SHA-256 hashes; rotation
// consumes the presented token atomically, so a token can never be
// redeemed twice.
package engine
