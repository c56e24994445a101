package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// GenToken returns n random bytes hex-encoded. Session and verification
// tokens are opaque bearer secrets, never derived or reused.
func GenToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewSessionToken returns a 64-char hex session token.
func NewSessionToken() (string, error) { return GenToken(32) }

// NewVerificationToken returns a 64-char hex email verification token.
func NewVerificationToken() (string, error) { return GenToken(32) }
