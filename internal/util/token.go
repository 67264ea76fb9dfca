package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// sessionTokenBytes fixes the token length at 64 hex characters.
const sessionTokenBytes = 32

// NewSessionToken generates a cryptographically random opaque token.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
