package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"taskboard/internal/config"
)

// DueDateLayout is the format of due dates submitted by clients (an HTML datetime-local value)
const DueDateLayout = "2006-01-02T15:04"

// Validator provides common validation utilities
type Validator struct {
	emailRegex *regexp.Regexp
	config     *config.Config
	loc        *time.Location
}

// NewValidator creates a validator with default limits
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	loc, err := cfg.Location()
	if err != nil {
		loc = time.Local
	}
	return &Validator{
		emailRegex: regexp.MustCompile(`^[^@\s]+@[^@\s]+$`),
		config:     cfg,
		loc:        loc,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks, in characters, that a trimmed string is within [min, max].
// A max of zero means unbounded.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && (max <= 0 || length <= max)
}

// IsValidEmail performs a shape check only; deliverability is not verified
func (v *Validator) IsValidEmail(email string) bool {
	return v.emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidID checks if an ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// ParseDueDate parses a submitted due date in the configured timezone.
// A blank value means no due date and is not an error.
func (v *Validator) ParseDueDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(DueDateLayout, raw, v.loc)
	if err != nil {
		return nil, false
	}
	return &t, true
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// Limits from configuration
func (v *Validator) titleMaxLength() int    { return v.config.Validation.TitleMaxLength }
func (v *Validator) usernameMinLength() int { return v.config.Validation.UsernameMinLength }
func (v *Validator) usernameMaxLength() int { return v.config.Validation.UsernameMaxLength }
func (v *Validator) passwordMinLength() int { return v.config.Validation.PasswordMinLength }
