package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// CheckPassword verifies password against hash. A nil hash never matches.
func CheckPassword(hashedPassword *string, password string) bool {
	if hashedPassword == nil || *hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hashedPassword), []byte(password)) == nil
}
