package auth

import "errors"

var (
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordsDontMatch = errors.New("passwords do not match")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrMalformedToken     = errors.New("malformed access token")
	ErrNoTokensReturned   = errors.New("login response carried no tokens")
)
