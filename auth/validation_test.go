package auth_test

import (
	"testing"

	"github.com/jrsteele09/go-nightlife-client/auth"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestValidator_ValidateCredentials(t *testing.T) {
	v := auth.NewValidator()

	tests := []struct {
		name  string
		creds auth.Credentials
		want  error
	}{
		{"email", auth.Credentials{Email: "ana@example.com", Password: "x"}, nil},
		{"username", auth.Credentials{Username: "ana", Password: "x"}, nil},
		{"no identifier", auth.Credentials{Password: "x"}, apperrors.ErrMissingIdentifier},
		{"blank identifier", auth.Credentials{Email: "  ", Username: " ", Password: "x"}, apperrors.ErrMissingIdentifier},
		{"bad email", auth.Credentials{Email: "ana.example.com", Password: "x"}, auth.ErrInvalidEmail},
		{"no password", auth.Credentials{Username: "ana"}, auth.ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCredentials(tt.creds)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidator_ValidateRegistration(t *testing.T) {
	v := auth.NewValidator()
	valid := auth.Registration{Email: "ana@example.com", Username: "ana", Password: "Secret123", PasswordConfirm: "Secret123"}

	require.NoError(t, v.ValidateRegistration(valid))

	noConfirm := valid
	noConfirm.PasswordConfirm = ""
	require.NoError(t, v.ValidateRegistration(noConfirm))

	mismatch := valid
	mismatch.PasswordConfirm = "Secret124"
	require.ErrorIs(t, v.ValidateRegistration(mismatch), auth.ErrPasswordsDontMatch)

	noUsername := valid
	noUsername.Username = ""
	require.ErrorIs(t, v.ValidateRegistration(noUsername), apperrors.ErrMissingIdentifier)

	badEmail := valid
	badEmail.Email = "ana@localhost"
	require.ErrorIs(t, v.ValidateRegistration(badEmail), auth.ErrInvalidEmail)

	noPassword := valid
	noPassword.Password = ""
	require.ErrorIs(t, v.ValidateRegistration(noPassword), auth.ErrPasswordRequired)
}

func TestValidator_ValidateAccessToken(t *testing.T) {
	v := auth.NewValidator()

	t.Run("valid shape", func(t *testing.T) {
		require.NoError(t, v.ValidateAccessToken("aaa.bbb.ccc"))
	})

	t.Run("empty", func(t *testing.T) {
		err := v.ValidateAccessToken("  ")
		require.ErrorIs(t, err, auth.ErrMalformedToken)
		require.Contains(t, err.Error(), "required")
	})

	t.Run("two parts", func(t *testing.T) {
		err := v.ValidateAccessToken("aaa.bbb")
		require.ErrorIs(t, err, auth.ErrMalformedToken)
		require.Contains(t, err.Error(), "valid JWT")
	})

	t.Run("empty part", func(t *testing.T) {
		err := v.ValidateAccessToken("aaa..ccc")
		require.ErrorIs(t, err, auth.ErrMalformedToken)
		require.Contains(t, err.Error(), "part 2 is empty")
	})
}
