package valueobject

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/customerhub/backend/internal/domain/shared"
)

const maxEmailLength = 255

// emailRegex is a simple email validation pattern
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is a value object holding a trimmed, lower-cased email address
type Email struct {
	value string
}

// NewEmail creates a new Email, normalizing surrounding whitespace and case
func NewEmail(raw string) (Email, error) {
	normalized := NormalizeEmail(raw)
	if normalized == "" {
		return Email{}, shared.NewValidationError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(normalized) > maxEmailLength || !emailRegex.MatchString(normalized) {
		return Email{}, shared.NewValidationError("INVALID_EMAIL_FORMAT", "Invalid email format")
	}
	return Email{value: normalized}, nil
}

// MustNewEmail creates a new Email, panics on error
func MustNewEmail(raw string) Email {
	e, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// NormalizeEmail trims and lower-cases raw without validating it
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Value returns the normalized address
func (e Email) Value() string {
	return e.value
}

// IsZero returns true for the zero Email
func (e Email) IsZero() bool {
	return e.value == ""
}

// Equals returns true if both emails have the same normalized form
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// String returns the normalized address
func (e Email) String() string {
	return e.value
}

// MarshalJSON implements json.Marshaler
func (e Email) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.value)
}
