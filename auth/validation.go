package auth

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
)

// Validator checks input before it is sent, so obvious mistakes do not cost a
// round trip.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateCredentials requires an email or a username, and a password.
func (v *Validator) ValidateCredentials(creds Credentials) error {
	email := strings.TrimSpace(creds.Email)
	if email == "" && strings.TrimSpace(creds.Username) == "" {
		return apperrors.ErrMissingIdentifier
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if creds.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateRegistration checks the fields the backend always requires.
func (v *Validator) ValidateRegistration(reg Registration) error {
	if strings.TrimSpace(reg.Email) == "" || strings.TrimSpace(reg.Username) == "" {
		return apperrors.ErrMissingIdentifier
	}
	if err := validateEmail(reg.Email); err != nil {
		return err
	}
	if reg.Password == "" {
		return ErrPasswordRequired
	}
	if reg.PasswordConfirm != "" && reg.PasswordConfirm != reg.Password {
		return ErrPasswordsDontMatch
	}
	return nil
}

// ValidateAccessToken validates access token format and presence
func (v *Validator) ValidateAccessToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: access token is required", ErrMalformedToken)
	}

	// Basic format check - should be a JWT (3 parts separated by dots)
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: must be a valid JWT", ErrMalformedToken)
	}

	for i, part := range parts {
		if len(part) == 0 {
			return fmt.Errorf("%w: part %d is empty", ErrMalformedToken, i+1)
		}
	}

	return nil
}

func validateEmail(email string) error {
	at := strings.LastIndex(email, "@")
	if at < 1 || !strings.Contains(email[at:], ".") {
		return ErrInvalidEmail
	}
	return nil
}
