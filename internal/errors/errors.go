package errors

import (
	"errors"
	"fmt"
)

// Common error values for the nightlife client
var (
	// Session errors
	ErrNoRefreshToken   = errors.New("no refresh token available")
	ErrRefreshFailed    = errors.New("token refresh failed")
	ErrSessionExpired   = errors.New("session expired")
	ErrEmptyAccessToken = errors.New("refresh response carried no access token")

	// Auth errors
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingIdentifier  = errors.New("email or username required")

	// Token store errors
	ErrStoreClosed       = errors.New("token store closed")
	ErrUnsupportedDriver = errors.New("unsupported token store driver")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
