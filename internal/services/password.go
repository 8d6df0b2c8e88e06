package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	saltBytes         = 16
	minPasswordLength = 8
	// bcrypt reads at most 72 bytes and the hex salt is appended to the password.
	maxPasswordLength = 72 - 2*saltBytes
)

// passwordProblem returns a validation message, or "" when password is acceptable.
// The upper bound is in bytes.
func passwordProblem(password string) string {
	switch {
	case len(password) < minPasswordLength:
		return fmt.Sprintf("password must be at least %d characters", minPasswordLength)
	case len(password) > maxPasswordLength:
		return fmt.Sprintf("password must be at most %d bytes", maxPasswordLength)
	}
	return ""
}

// hashPassword returns a bcrypt hash of password+salt with a fresh random salt.
func hashPassword(password string) (hash, salt string, err error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(buf)
	h, err := bcrypt.GenerateFromPassword([]byte(password+salt), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), salt, nil
}

func checkPassword(hash, salt, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+salt)) == nil
}
