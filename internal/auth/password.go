package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 8

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if err := checkPasswordPolicy(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func checkPasswordPolicy(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return NewError(ErrWeakPassword,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength), nil)
	case len(password) > maxPasswordBytes:
		return WrapError(ErrWeakPassword,
			fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes), bcrypt.ErrPasswordTooLong, nil)
	}
	return nil
}

