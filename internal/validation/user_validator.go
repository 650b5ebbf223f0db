package validation

import (
	"fmt"
	"strings"
)

// RenameUsernameMaxLength caps usernames chosen through a rename, which is tighter than signup
const RenameUsernameMaxLength = 50

// SignupForm holds the raw fields of an account registration
type SignupForm struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserValidator validates account forms
type UserValidator struct {
	validator *Validator
}

// NewUserValidator creates a new user validator
func NewUserValidator(v *Validator) *UserValidator {
	if v == nil {
		v = NewValidator()
	}
	return &UserValidator{validator: v}
}

// ValidateSignup checks a registration form and returns it with username and email trimmed.
// Checks stop at the first failure so the caller gets one message.
func (uv *UserValidator) ValidateSignup(form SignupForm) (SignupForm, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)

	validationError := NewValidationError()
	minLen, maxLen := uv.validator.usernameMinLength(), uv.validator.usernameMaxLength()
	pwMin := uv.validator.passwordMinLength()

	switch {
	case form.Username == "" || form.Email == "" || form.Password == "" || form.ConfirmPassword == "":
		validationError.AddError("form", ErrorTypeRequired, "All fields are required", nil)
	case !uv.validator.IsValidStringLength(form.Username, minLen, maxLen):
		validationError.AddError("username", ErrorTypeInvalidLength,
			fmt.Sprintf("Username must be between %d and %d characters", minLen, maxLen), form.Username)
	case !uv.validator.IsValidEmail(form.Email):
		validationError.AddInvalidFormatError("email", form.Email, "name@domain")
	case len([]rune(form.Password)) < pwMin:
		validationError.AddError("password", ErrorTypeInvalidLength,
			fmt.Sprintf("Password must be at least %d characters", pwMin), nil)
	case form.Password != form.ConfirmPassword:
		validationError.AddError("confirm_password", ErrorTypeMismatch, "Passwords do not match", nil)
	}

	return form, validationError.OrNil()
}

// ValidateLogin requires both credentials and returns the trimmed username
func (uv *UserValidator) ValidateLogin(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		validationError := NewValidationError()
		validationError.AddError("form", ErrorTypeRequired, "Username and password are required", nil)
		return "", validationError
	}
	return username, nil
}

// ValidateUsernameChange checks a rename request and returns the trimmed new username
func (uv *UserValidator) ValidateUsernameChange(currentPassword, newUsername string) (string, error) {
	newUsername = strings.TrimSpace(newUsername)
	validationError := NewValidationError()
	minLen := uv.validator.usernameMinLength()

	if currentPassword == "" || newUsername == "" {
		validationError.AddError("form", ErrorTypeRequired, "Current password and new username are required", nil)
	} else if !uv.validator.IsValidStringLength(newUsername, minLen, RenameUsernameMaxLength) {
		validationError.AddError("new_username", ErrorTypeInvalidLength,
			fmt.Sprintf("Username must be between %d and %d characters", minLen, RenameUsernameMaxLength), newUsername)
	}

	return newUsername, validationError.OrNil()
}

// ValidatePasswordChange checks a password change request
func (uv *UserValidator) ValidatePasswordChange(currentPassword, newPassword string) error {
	validationError := NewValidationError()
	pwMin := uv.validator.passwordMinLength()

	if currentPassword == "" || newPassword == "" {
		validationError.AddError("form", ErrorTypeRequired, "Current password and new password are required", nil)
	} else if len([]rune(newPassword)) < pwMin {
		validationError.AddError("new_password", ErrorTypeInvalidLength,
			fmt.Sprintf("New password must be at least %d characters", pwMin), nil)
	}

	return validationError.OrNil()
}
