package password

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
)

// Character classes for generated passwords.
const (
	upperChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars  = "abcdefghijkmnopqrstuvwxyz"
	digitChars  = "23456789"
	symbolChars = "!@#$%^&*-_=+"
	allChars    = upperChars + lowerChars + digitChars + symbolChars
)

// Generate returns a cryptographically secure random password of the given
// length. When length >= 4 the result contains at least one character from
// each of the four classes (upper, lower, digit, symbol).
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password: generate: length must be positive (got %d)", length)
	}

	out := make([]byte, length)

	// One from each class first, while length permits.
	classes := []string{upperChars, lowerChars, digitChars, symbolChars}
	i := 0
	for ; i < len(classes) && i < length; i++ {
		c, err := pick(classes[i])
		if err != nil {
			return "", err
		}
		out[i] = c
	}
	for ; i < length; i++ {
		c, err := pick(allChars)
		if err != nil {
			return "", err
		}
		out[i] = c
	}

	// Shuffle so the class-guaranteed characters are not positional.
	for j := length - 1; j > 0; j-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(j+1)))
		if err != nil {
			return "", fmt.Errorf("password: generate: %w", err)
		}
		k := int(n.Int64())
		out[j], out[k] = out[k], out[j]
	}

	return string(out), nil
}

func pick(from string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(from))))
	if err != nil {
		return 0, fmt.Errorf("password: generate: %w", err)
	}
	return from[n.Int64()], nil
}

// Token returns a random opaque token of the given byte length, hex encoded.
// Used for refresh tokens and single-use verification/reset tokens.
func Token(bytes int) (string, error) {
	b, err := randomBytes(bytes)
	if err != nil {
		return "", fmt.Errorf("password: token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashSHA256 returns the SHA-256 hex digest of value. Token stores persist
// this digest, never the raw token.
func HashSHA256(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
