package valueobject

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/customerhub/backend/internal/domain/shared"
)

// DefaultRegion is used when no region is configured
const DefaultRegion = "US"

// PhonePolicy decides which number types are accepted as a mobile number
type PhonePolicy string

const (
	// PhonePolicyMobile accepts only numbers classified as MOBILE
	PhonePolicyMobile PhonePolicy = "mobile"
	// PhonePolicyMobileOrFixed also accepts FIXED_LINE_OR_MOBILE, which is how
	// every NANP (US, CA) number is classified
	PhonePolicyMobileOrFixed PhonePolicy = "mobile_or_fixed"
)

// ParsePhonePolicy converts a configuration string into a PhonePolicy
func ParsePhonePolicy(s string) (PhonePolicy, error) {
	switch PhonePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PhonePolicyMobile:
		return PhonePolicyMobile, nil
	case PhonePolicyMobileOrFixed, "":
		return PhonePolicyMobileOrFixed, nil
	default:
		return "", fmt.Errorf("unknown phone policy %q", s)
	}
}

// Accepts returns true if the number type satisfies the policy
func (p PhonePolicy) Accepts(t phonenumbers.PhoneNumberType) bool {
	switch t {
	case phonenumbers.MOBILE:
		return true
	case phonenumbers.FIXED_LINE_OR_MOBILE:
		return p != PhonePolicyMobile
	default:
		return false
	}
}

// PhoneOptions configures phone number parsing
type PhoneOptions struct {
	Region string
	Policy PhonePolicy
}

// DefaultPhoneOptions returns US region with the mobile-or-fixed policy
func DefaultPhoneOptions() PhoneOptions {
	return PhoneOptions{Region: DefaultRegion, Policy: PhonePolicyMobileOrFixed}
}

// PhoneNumber is a value object for a validated mobile phone number.
// Equality uses the E.164 form, so formatting differences are ignored.
type PhoneNumber struct {
	raw    string
	region string
	e164   string
	number *phonenumbers.PhoneNumber
}

// NewPhoneNumber parses raw using the default options
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	return NewPhoneNumberWithOptions(raw, DefaultPhoneOptions())
}

// NewPhoneNumberWithOptions parses raw for the given region and policy
func NewPhoneNumberWithOptions(raw string, opts PhoneOptions) (PhoneNumber, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PhoneNumber{}, shared.NewValidationError("INVALID_PHONE", "Phone number cannot be empty")
	}

	region := strings.ToUpper(strings.TrimSpace(opts.Region))
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return PhoneNumber{}, shared.NewValidationError("INVALID_PHONE_FORMAT", "Invalid phone number format")
	}

	if !opts.Policy.Accepts(phonenumbers.GetNumberType(num)) {
		return PhoneNumber{}, shared.NewValidationError("INVALID_PHONE_TYPE", "Phone number must be a mobile number")
	}

	return PhoneNumber{
		raw:    raw,
		region: region,
		e164:   phonenumbers.Format(num, phonenumbers.E164),
		number: num,
	}, nil
}

// MustNewPhoneNumber creates a new PhoneNumber with default options, panics on error
func MustNewPhoneNumber(raw string) PhoneNumber {
	p, err := NewPhoneNumber(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// Raw returns the input as given (trimmed)
func (p PhoneNumber) Raw() string {
	return p.raw
}

// Region returns the region the number was parsed against
func (p PhoneNumber) Region() string {
	return p.region
}

// E164 returns the canonical E.164 form, e.g. +14155552671
func (p PhoneNumber) E164() string {
	return p.e164
}

// CountryCode returns the country calling code, e.g. "1"
func (p PhoneNumber) CountryCode() string {
	if p.number == nil {
		return ""
	}
	return strconv.Itoa(int(p.number.GetCountryCode()))
}

// NationalNumber returns the national significant number
func (p PhoneNumber) NationalNumber() string {
	if p.number == nil {
		return ""
	}
	return strconv.FormatUint(p.number.GetNationalNumber(), 10)
}

// IsZero returns true for the zero PhoneNumber
func (p PhoneNumber) IsZero() bool {
	return p.e164 == ""
}

// Equals returns true if both numbers have the same E.164 form
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.e164 == other.e164
}

// String returns the E.164 form
func (p PhoneNumber) String() string {
	return p.e164
}

// MarshalJSON implements json.Marshaler using the E.164 form
func (p PhoneNumber) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.e164)
}
