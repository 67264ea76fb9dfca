package util

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DummyPasswordHash is compared against when login hits an unknown email,
// keeping the work profile close to a real comparison.
const DummyPasswordHash = "$2b$10$CwTycUXWue0Thq9StjUM0uJ8Yq4eKq8hWw6q9KzQ1G1f6fG6XcO2"

// HashPassword hashes a plaintext password with the given bcrypt cost.
func HashPassword(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
