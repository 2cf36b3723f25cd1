package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// User is the account record shared by the API and the app. The JSON shape is
// the one the backend returns from login, registration and the profile
// endpoint.
type User struct {
	ID           int64     `json:"id"`                    // Backend assigned identifier
	Email        string    `json:"email,omitempty"`       // User's email address
	Username     string    `json:"username,omitempty"`    // Unique username
	PasswordHash string    `json:"-"`                     // Hashed version of the user's password - never serialize
	FirstName    string    `json:"first_name,omitempty"`  // First name of the user
	LastName     string    `json:"last_name,omitempty"`   // Last name of the user
	Bio          string    `json:"bio,omitempty"`         // Free text shown on the profile
	AvatarURL    string    `json:"avatar,omitempty"`      // Profile picture location
	DateJoined   time.Time `json:"date_joined,omitempty"` // Date and time when the user registered
	LastLogin    time.Time `json:"last_login,omitempty"`  // Last time the user logged in
}

// DisplayName is the full name when known, otherwise the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// ErrWeakPassword is returned when a password fails one of the strength rules.
var ErrWeakPassword = errors.New("password too weak")

const minPasswordLength = 8

// PasswordProblems lists every strength rule the password breaks, worded the
// way the backend reports them. An empty result means the password is usable.
func PasswordProblems(password string) []string {
	var problems []string
	if utf8.RuneCountInString(password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength))
	}

	var upper, lower, digits, letters int
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper++
			letters++
		case unicode.IsLower(r):
			lower++
			letters++
		case unicode.IsDigit(r):
			digits++
		}
	}

	if password != "" && digits == utf8.RuneCountInString(password) {
		problems = append(problems, "This password is entirely numeric.")
	} else if letters > 0 && (upper == 0 || lower == 0) {
		problems = append(problems, "The password must mix upper and lower case letters.")
	}
	if digits == 0 {
		problems = append(problems, "The password must contain at least one digit.")
	}
	return problems
}

// ValidatePasswordStrength wraps ErrWeakPassword with the first broken rule.
func ValidatePasswordStrength(password string) error {
	if problems := PasswordProblems(password); len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrWeakPassword, problems[0])
	}
	return nil
}

// HashPassword returns the bcrypt hash stored in PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("[users HashPassword] %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with the user's stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
