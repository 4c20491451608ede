package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sizes in bytes before hex encoding.
const (
	// CodeSize is used for authorization codes (32 hex chars).
	CodeSize = 16
	// SessionTokenSize is used for session tokens (64 hex chars).
	SessionTokenSize = 32
)

// GenerateHexToken returns size random bytes as lowercase hex.
func GenerateHexToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns the hex SHA-256 of token. Session rows store this
// instead of the token itself.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
