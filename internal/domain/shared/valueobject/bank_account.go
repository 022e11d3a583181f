package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/customerhub/backend/internal/domain/shared"
)

const (
	MinBankAccountLength = 8
	MaxBankAccountLength = 17
	visibleAccountDigits = 4
)

// BankAccount is a value object for a Luhn-valid bank account number.
// Whitespace is stripped on construction; only the digits are kept.
type BankAccount struct {
	value string
}

// NewBankAccount creates a new BankAccount
func NewBankAccount(raw string) (BankAccount, error) {
	if strings.TrimSpace(raw) == "" {
		return BankAccount{}, shared.NewValidationError("INVALID_BANK_ACCOUNT", "Bank account number cannot be empty")
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	for _, r := range digits {
		if r < '0' || r > '9' {
			return BankAccount{}, shared.NewValidationError("INVALID_BANK_ACCOUNT_FORMAT", "Bank account number must contain only digits")
		}
	}

	if len(digits) < MinBankAccountLength || len(digits) > MaxBankAccountLength {
		return BankAccount{}, shared.NewValidationError("INVALID_BANK_ACCOUNT_LENGTH",
			fmt.Sprintf("Bank account number must be between %d and %d digits", MinBankAccountLength, MaxBankAccountLength))
	}

	if !LuhnValid(digits) {
		return BankAccount{}, shared.NewValidationError("INVALID_BANK_ACCOUNT_CHECKSUM", "Invalid bank account number checksum")
	}

	return BankAccount{value: digits}, nil
}

// MustNewBankAccount creates a new BankAccount, panics on error
func MustNewBankAccount(raw string) BankAccount {
	b, err := NewBankAccount(raw)
	if err != nil {
		panic(err)
	}
	return b
}

// LuhnValid reports whether a string of ASCII digits passes the Luhn checksum.
// Every second digit counted from the right is doubled, with 9 subtracted when
// the result exceeds 9.
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// Value returns the digits of the account number
func (b BankAccount) Value() string {
	return b.value
}

// Masked returns the account number with all but the last four digits replaced by '*'
func (b BankAccount) Masked() string {
	if len(b.value) <= visibleAccountDigits {
		return b.value
	}
	hidden := len(b.value) - visibleAccountDigits
	return strings.Repeat("*", hidden) + b.value[hidden:]
}

// IsZero returns true for the zero BankAccount
func (b BankAccount) IsZero() bool {
	return b.value == ""
}

// Equals returns true if both accounts hold the same digits
func (b BankAccount) Equals(other BankAccount) bool {
	return b.value == other.value
}

// String returns the masked form so account numbers do not leak into logs
func (b BankAccount) String() string {
	return b.Masked()
}

// MarshalJSON implements json.Marshaler using the masked form
func (b BankAccount) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Masked())
}
