package valueobject

import (
	"testing"

	"github.com/nyaruka/phonenumbers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerhub/backend/internal/domain/shared"
)

func TestNewPhoneNumber(t *testing.T) {
	t.Run("valid US number", func(t *testing.T) {
		p, err := NewPhoneNumber("+14155552671")
		require.NoError(t, err)
		assert.Equal(t, "+14155552671", p.E164())
		assert.Equal(t, "1", p.CountryCode())
		assert.Equal(t, "4155552671", p.NationalNumber())
		assert.Equal(t, "US", p.Region())
	})

	t.Run("national format uses the region", func(t *testing.T) {
		p, err := NewPhoneNumber("(415) 555-2671")
		require.NoError(t, err)
		assert.Equal(t, "+14155552671", p.E164())
		assert.Equal(t, "(415) 555-2671", p.Raw())
	})

	t.Run("punctuation does not affect equality", func(t *testing.T) {
		a := MustNewPhoneNumber("+1 415-555-2671")
		b := MustNewPhoneNumber("+14155552671")
		assert.True(t, a.Equals(b))
		assert.Equal(t, b.String(), a.String())
	})

	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{name: "empty", input: "", wantCode: "INVALID_PHONE"},
		{name: "blank", input: "   ", wantCode: "INVALID_PHONE"},
		{name: "too short", input: "12345", wantCode: "INVALID_PHONE_FORMAT"},
		{name: "garbage", input: "not-a-number", wantCode: "INVALID_PHONE_FORMAT"},
		{name: "toll free", input: "+18005550199", wantCode: "INVALID_PHONE_TYPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPhoneNumber(tt.input)
			require.Error(t, err)
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestNewPhoneNumberWithOptions(t *testing.T) {
	t.Run("strict policy rejects NANP numbers", func(t *testing.T) {
		_, err := NewPhoneNumberWithOptions("+14155552671", PhoneOptions{Region: "US", Policy: PhonePolicyMobile})
		require.Error(t, err)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_PHONE_TYPE", de.Code)
	})

	t.Run("strict policy accepts a GB mobile", func(t *testing.T) {
		p, err := NewPhoneNumberWithOptions("07400 123456", PhoneOptions{Region: "gb", Policy: PhonePolicyMobile})
		require.NoError(t, err)
		assert.Equal(t, "+447400123456", p.E164())
		assert.Equal(t, "44", p.CountryCode())
		assert.Equal(t, "GB", p.Region())
	})

	t.Run("empty region falls back to US", func(t *testing.T) {
		p, err := NewPhoneNumberWithOptions("415 555 2671", PhoneOptions{})
		require.NoError(t, err)
		assert.Equal(t, "+14155552671", p.E164())
	})
}

func TestParsePhonePolicy(t *testing.T) {
	p, err := ParsePhonePolicy("MOBILE")
	require.NoError(t, err)
	assert.Equal(t, PhonePolicyMobile, p)

	p, err = ParsePhonePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PhonePolicyMobileOrFixed, p)

	_, err = ParsePhonePolicy("landline")
	assert.Error(t, err)
}

func TestPhonePolicy_Accepts(t *testing.T) {
	assert.True(t, PhonePolicyMobile.Accepts(phonenumbers.MOBILE))
	assert.False(t, PhonePolicyMobile.Accepts(phonenumbers.FIXED_LINE_OR_MOBILE))
	assert.True(t, PhonePolicyMobileOrFixed.Accepts(phonenumbers.FIXED_LINE_OR_MOBILE))
	assert.False(t, PhonePolicyMobileOrFixed.Accepts(phonenumbers.FIXED_LINE))
	assert.False(t, PhonePolicyMobileOrFixed.Accepts(phonenumbers.TOLL_FREE))
}
