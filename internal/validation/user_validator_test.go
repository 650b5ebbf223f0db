package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageOf(t *testing.T, err error) string {
	t.Helper()
	ve, ok := AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	return ve.GetUserFriendlyMessage()
}

func TestUserValidator_ValidateSignup(t *testing.T) {
	valid := SignupForm{Username: "alice", Email: "alice@example.com", Password: "secret", ConfirmPassword: "secret"}

	tests := []struct {
		name    string
		mutate  func(f *SignupForm)
		message string
	}{
		{"missing username", func(f *SignupForm) { f.Username = "  " }, "All fields are required"},
		{"missing email", func(f *SignupForm) { f.Email = "" }, "All fields are required"},
		{"missing confirmation", func(f *SignupForm) { f.ConfirmPassword = "" }, "All fields are required"},
		{"short username", func(f *SignupForm) { f.Username = "al" }, "Username must be between 3 and 80 characters"},
		{"long username", func(f *SignupForm) { f.Username = strings.Repeat("a", 81) }, "Username must be between 3 and 80 characters"},
		{"bad email", func(f *SignupForm) { f.Email = "alice" }, "email has invalid format, expected: name@domain"},
		{"short password", func(f *SignupForm) { f.Password, f.ConfirmPassword = "12345", "12345" }, "Password must be at least 6 characters"},
		{"mismatch", func(f *SignupForm) { f.ConfirmPassword = "secreT" }, "Passwords do not match"},
	}

	uv := NewUserValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)
			_, err := uv.ValidateSignup(form)
			assert.Equal(t, tt.message, messageOf(t, err))
		})
	}

	t.Run("valid form is trimmed", func(t *testing.T) {
		form := valid
		form.Username = "  alice "
		form.Email = " alice@example.com "
		cleaned, err := uv.ValidateSignup(form)
		require.NoError(t, err)
		assert.Equal(t, "alice", cleaned.Username)
		assert.Equal(t, "alice@example.com", cleaned.Email)
		assert.Equal(t, "secret", cleaned.Password)
	})
}

func TestUserValidator_ValidateLogin(t *testing.T) {
	uv := NewUserValidator(nil)

	username, err := uv.ValidateLogin(" alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = uv.ValidateLogin("alice", "")
	assert.Equal(t, "Username and password are required", messageOf(t, err))

	_, err = uv.ValidateLogin("  ", "secret")
	assert.Equal(t, "Username and password are required", messageOf(t, err))
}

func TestUserValidator_ValidateUsernameChange(t *testing.T) {
	uv := NewUserValidator(nil)

	username, err := uv.ValidateUsernameChange("secret", " bob ")
	require.NoError(t, err)
	assert.Equal(t, "bob", username)

	_, err = uv.ValidateUsernameChange("", "bob")
	assert.Equal(t, "Current password and new username are required", messageOf(t, err))

	_, err = uv.ValidateUsernameChange("secret", "bo")
	assert.Equal(t, "Username must be between 3 and 50 characters", messageOf(t, err))

	_, err = uv.ValidateUsernameChange("secret", strings.Repeat("b", 51))
	assert.Equal(t, "Username must be between 3 and 50 characters", messageOf(t, err))

	_, err = uv.ValidateUsernameChange("secret", strings.Repeat("b", 50))
	assert.NoError(t, err)
}

func TestUserValidator_ValidatePasswordChange(t *testing.T) {
	uv := NewUserValidator(nil)

	assert.NoError(t, uv.ValidatePasswordChange("old", "newpass"))

	err := uv.ValidatePasswordChange("old", "")
	assert.Equal(t, "Current password and new password are required", messageOf(t, err))

	err = uv.ValidatePasswordChange("old", "12345")
	assert.Equal(t, "New password must be at least 6 characters", messageOf(t, err))
}
