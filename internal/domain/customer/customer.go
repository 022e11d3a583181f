package customer

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

const (
	// MinimumAge is the youngest age at which a customer can be registered
	MinimumAge = 18
	// MaxNameLength is the maximum length of a first or last name in characters
	MaxNameLength = 100
)

// Fields holds the mutable attributes of a customer
type Fields struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       valueobject.PhoneNumber
	Email       valueobject.Email
	BankAccount valueobject.BankAccount
}

// Customer is the aggregate root of the customer context.
// It is immutable: every change produces a new Customer through Reconstitute.
type Customer struct {
	shared.Identity
	firstName   string
	lastName    string
	dateOfBirth time.Time
	phone       valueobject.PhoneNumber
	email       valueobject.Email
	bankAccount valueobject.BankAccount
}

// Create builds a new, unpersisted customer. now is the reference time for the
// future-date and minimum-age checks and becomes both timestamps.
func Create(f Fields, now time.Time) (*Customer, error) {
	return build(shared.Identity{}, f, now, now, now)
}

// Reconstitute rebuilds a customer with an existing identity, either when
// loading from storage or when producing the updated snapshot of a customer.
// All invariants are checked again against now.
func Reconstitute(identity shared.Identity, f Fields, now time.Time) (*Customer, error) {
	return build(identity, f, identity.CreatedAt(), identity.UpdatedAt(), now)
}

func build(identity shared.Identity, f Fields, createdAt, updatedAt, now time.Time) (*Customer, error) {
	firstName, err := normalizeName(f.FirstName, "INVALID_FIRST_NAME", "First name")
	if err != nil {
		return nil, err
	}
	lastName, err := normalizeName(f.LastName, "INVALID_LAST_NAME", "Last name")
	if err != nil {
		return nil, err
	}

	if f.DateOfBirth.IsZero() {
		return nil, shared.NewValidationError("INVALID_DATE_OF_BIRTH", "Date of birth cannot be empty")
	}
	dob := DateOnly(f.DateOfBirth)
	today := DateOnly(now)
	if dob.After(today) {
		return nil, shared.NewValidationError("INVALID_DATE_OF_BIRTH", "Date of birth cannot be in the future")
	}
	if ageOn(dob, today) < MinimumAge {
		return nil, shared.NewValidationError("UNDERAGE", "Customer must be at least 18 years old")
	}

	if f.Phone.IsZero() {
		return nil, shared.NewValidationError("INVALID_PHONE", "Phone number cannot be empty")
	}
	if f.Email.IsZero() {
		return nil, shared.NewValidationError("INVALID_EMAIL", "Email cannot be empty")
	}
	if f.BankAccount.IsZero() {
		return nil, shared.NewValidationError("INVALID_BANK_ACCOUNT", "Bank account number cannot be empty")
	}

	return &Customer{
		Identity:    shared.NewIdentity(identity.ID(), createdAt, updatedAt),
		firstName:   firstName,
		lastName:    lastName,
		dateOfBirth: dob,
		phone:       f.Phone,
		email:       f.Email,
		bankAccount: f.BankAccount,
	}, nil
}

// NormalizeName trims surrounding whitespace and folds the name to NFC
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// normalizeName normalizes the name and accepts letters and spaces only
func normalizeName(name, code, label string) (string, error) {
	name = NormalizeName(name)
	if name == "" {
		return "", shared.NewValidationError(code, label+" cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", shared.NewValidationError(code, label+" cannot exceed 100 characters")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return "", shared.NewValidationError(code, label+" can only contain letters and spaces")
		}
	}
	return name, nil
}

// DateOnly truncates t to midnight UTC of its calendar date
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ageOn returns the number of full years between dob and day
func ageOn(dob, day time.Time) int {
	age := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		age--
	}
	return age
}

// FirstName returns the first name
func (c *Customer) FirstName() string {
	return c.firstName
}

// LastName returns the last name
func (c *Customer) LastName() string {
	return c.lastName
}

// FullName returns first and last name joined by a space
func (c *Customer) FullName() string {
	return c.firstName + " " + c.lastName
}

// DateOfBirth returns the date of birth at midnight UTC
func (c *Customer) DateOfBirth() time.Time {
	return c.dateOfBirth
}

// Phone returns the phone number
func (c *Customer) Phone() valueobject.PhoneNumber {
	return c.phone
}

// Email returns the email
func (c *Customer) Email() valueobject.Email {
	return c.email
}

// BankAccount returns the bank account
func (c *Customer) BankAccount() valueobject.BankAccount {
	return c.bankAccount
}

// Fields returns a copy of the mutable attributes, used as the base for an update
func (c *Customer) Fields() Fields {
	return Fields{
		FirstName:   c.firstName,
		LastName:    c.lastName,
		DateOfBirth: c.dateOfBirth,
		Phone:       c.phone,
		Email:       c.email,
		BankAccount: c.bankAccount,
	}
}

// Age returns the customer's age today
func (c *Customer) Age() int {
	return c.AgeAt(time.Now())
}

// AgeAt returns the customer's age on the calendar date of t
func (c *Customer) AgeAt(t time.Time) int {
	return ageOn(c.dateOfBirth, DateOnly(t))
}

// IsSamePerson returns true if both customers share first name, last name
// (case-insensitive) and date of birth
func (c *Customer) IsSamePerson(other *Customer) bool {
	if other == nil {
		return false
	}
	return strings.EqualFold(c.firstName, other.firstName) &&
		strings.EqualFold(c.lastName, other.lastName) &&
		c.dateOfBirth.Equal(other.dateOfBirth)
}

// HasSameEmail returns true if both customers have the same email
func (c *Customer) HasSameEmail(other *Customer) bool {
	return other != nil && c.email.Equals(other.email)
}
