package entities

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domainerrors "bibliotheque/contexts/identity-access/identity-service/domain/errors"
)

const MinPasswordLength = 8

type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NormalizeEmail lower-cases and validates an address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domainerrors.ErrInvalidEmail
	}
	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", domainerrors.ErrInvalidEmail
	}
	return email, nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return domainerrors.ErrWeakPassword
	}
	return nil
}
