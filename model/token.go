package model

import "github.com/jrsteele09/go-nightlife-client/users"

// TokenPair is the body returned by login, registration and refresh.
type TokenPair struct {
	// Access is the JWT sent as "Authorization: Bearer <access>".
	// Lifespan: short, minutes
	// Note: the exp claim is authoritative; clients read it without verifying
	Access string `json:"access"`

	// Refresh is the opaque token exchanged at the refresh endpoint.
	// Lifespan: days
	// Behavior: may be rotated, in which case the response carries a new one
	// and the old one stops working
	Refresh string `json:"refresh,omitempty"`

	// User is present on login and registration only.
	User *users.User `json:"user,omitempty"`
}

// RefreshRequest is the body of the refresh and logout endpoints.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// LoginRequest identifies the account by email or username.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password2,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}
