// Package password provides one-way password hashing, constant-time
// verification, and cryptographically secure random generation.
//
// Two hashers are available behind the Hasher interface: bcrypt (default)
// and argon2id. Both carry their parameters inside the encoded hash, so the
// work factor can be raised without invalidating stored hashes.
//
// Hashing deliberately burns CPU for hundreds of milliseconds at production
// cost settings. Callers on a latency-sensitive path should treat Hash and
// Verify as blocking, CPU-bound steps. Verification runs in constant time
// with respect to the mismatch position and returns only a boolean, so no
// timing or error signal distinguishes a wrong password from a right one.
package password
