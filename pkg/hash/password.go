package hash

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used by Hash.
var Cost = 12

var ErrMismatch = errors.New("password does not match")

func Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// Compare checks password against stored. Values that are not bcrypt hashes
// come from the plain-text account layout and are compared verbatim.
func Compare(stored, password string) error {
	if !IsHashed(stored) {
		if subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
			return nil
		}
		return ErrMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
