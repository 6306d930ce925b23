// Package magiclink implements the tokenized-link credential model: a
// high-entropy random token goes in the customer's URL, and only its SHA-256
// hash is ever persisted. Possession of the raw token is the only credential.
package magiclink

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// TokenLength is the hex length of a raw token (32 random bytes).
const TokenLength = 64

// DefaultExpiry is how long a freshly minted proof link stays valid.
const DefaultExpiry = 30 * 24 * time.Hour

// GenerateToken returns a new raw token and its storage hash.
func GenerateToken() (token, tokenHash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}
	token = hex.EncodeToString(buf)
	return token, HashToken(token), nil
}

// HashToken returns the hex SHA-256 of a raw token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidFormat reports whether a candidate token looks like one we issued:
// exactly 64 lowercase hex characters. Requests failing this check are
// rejected before any database lookup.
func ValidFormat(token string) bool {
	if len(token) != TokenLength {
		return false
	}
	for i := 0; i < len(token); i++ {
		c := token[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
