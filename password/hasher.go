package password

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/keremavci/authkit/errors"
)

// Hasher hashes plaintexts and verifies candidates against stored hashes.
type Hasher interface {
	// Hash returns the encoded hash of plaintext. It fails with a
	// KindValidation error when plaintext is shorter than the configured
	// minimum, and with KindInternal only on hashing failure.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored hash. Malformed
	// hashes verify as false; no error channel exists that could leak which
	// check failed.
	Verify(plaintext, hash string) bool
}

// bcryptHasher implements Hasher using bcrypt.
type bcryptHasher struct {
	cost      int
	minLength int
}

func newBcryptHasher(cfg Config) *bcryptHasher {
	return &bcryptHasher{cost: cfg.BcryptCost, minLength: cfg.MinLength}
}

func (h *bcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) < h.minLength {
		return "", errors.Validation(fmt.Sprintf("password must be at least %d characters", h.minLength))
	}
	// bcrypt truncates silently past 72 bytes; refuse instead.
	if len(plaintext) > 72 {
		return "", errors.Validation("password must be at most 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", errors.Internal(err)
	}
	return string(hash), nil
}

func (h *bcryptHasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// argon2Hasher implements Hasher using argon2id. Hashes use the standard
// encoded form: $argon2id$v=19$m=MEMORY,t=TIME,p=THREADS$SALT$HASH.
type argon2Hasher struct {
	time      uint32
	memory    uint32
	threads   uint8
	keyLen    uint32
	saltLen   int
	minLength int
}

func newArgon2Hasher(cfg Config) *argon2Hasher {
	return &argon2Hasher{
		time:      cfg.Argon2Time,
		memory:    cfg.Argon2Memory,
		threads:   cfg.Argon2Threads,
		keyLen:    32,
		saltLen:   16,
		minLength: cfg.MinLength,
	}
}

func (h *argon2Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) < h.minLength {
		return "", errors.Validation(fmt.Sprintf("password must be at least %d characters", h.minLength))
	}

	salt, err := randomBytes(h.saltLen)
	if err != nil {
		return "", errors.Internal(err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

func (h *argon2Hasher) Verify(plaintext, encodedHash string) bool {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	got := argon2.IDKey([]byte(plaintext), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
