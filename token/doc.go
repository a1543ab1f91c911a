// Package token signs and verifies the compact signed tokens the engine
// issues: short-lived access tokens and (optionally) signed refresh tokens.
//
// Every token carries a subject, a kind ("access" or "refresh"), the
// configured issuer and audience, a random token id, issued-at, and expiry.
// Verification is pure computation: it checks the HMAC signature, the
// issuer/audience pair, and the expiry, and never touches state.
//
// Expiry comparison is strict — no clock-skew leeway is granted. A token one
// millisecond past its expiry fails with a token-expired error.
package token
