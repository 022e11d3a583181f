package customer

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

var refNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func validFields() Fields {
	return Fields{
		FirstName:   "John",
		LastName:    "Doe",
		DateOfBirth: time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC),
		Phone:       valueobject.MustNewPhoneNumber("+14155552671"),
		Email:       valueobject.MustNewEmail("john.doe@example.com"),
		BankAccount: valueobject.MustNewBankAccount("79927398713"),
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
	assert.True(t, shared.IsValidation(err))
}

func TestCreate(t *testing.T) {
	t.Run("creates unpersisted customer", func(t *testing.T) {
		c, err := Create(validFields(), refNow)
		require.NoError(t, err)
		assert.False(t, c.IsPersisted())
		assert.Equal(t, uuid.Nil, c.ID())
		assert.Equal(t, "John", c.FirstName())
		assert.Equal(t, "Doe", c.LastName())
		assert.Equal(t, "John Doe", c.FullName())
		assert.Equal(t, refNow, c.CreatedAt())
		assert.Equal(t, refNow, c.UpdatedAt())
		assert.Equal(t, 36, c.AgeAt(refNow))
	})

	t.Run("trims names", func(t *testing.T) {
		f := validFields()
		f.FirstName = "  Mary Ann "
		f.LastName = " Smith  "
		c, err := Create(f, refNow)
		require.NoError(t, err)
		assert.Equal(t, "Mary Ann", c.FirstName())
		assert.Equal(t, "Mary Ann Smith", c.FullName())
	})

	t.Run("accepts accented letters", func(t *testing.T) {
		f := validFields()
		f.FirstName = "Zoé"
		c, err := Create(f, refNow)
		require.NoError(t, err)
		assert.Equal(t, "Zoé", c.FirstName())
	})

	t.Run("truncates date of birth to a date", func(t *testing.T) {
		f := validFields()
		f.DateOfBirth = time.Date(1990, 5, 20, 17, 45, 0, 0, time.UTC)
		c, err := Create(f, refNow)
		require.NoError(t, err)
		assert.Equal(t, time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC), c.DateOfBirth())
	})

	tests := []struct {
		name   string
		mutate func(*Fields)
		code   string
	}{
		{"empty first name", func(f *Fields) { f.FirstName = "  " }, "INVALID_FIRST_NAME"},
		{"empty last name", func(f *Fields) { f.LastName = "" }, "INVALID_LAST_NAME"},
		{"digits in first name", func(f *Fields) { f.FirstName = "J0hn" }, "INVALID_FIRST_NAME"},
		{"punctuation in last name", func(f *Fields) { f.LastName = "O'Brien" }, "INVALID_LAST_NAME"},
		{"first name too long", func(f *Fields) { f.FirstName = strings.Repeat("a", 101) }, "INVALID_FIRST_NAME"},
		{"missing date of birth", func(f *Fields) { f.DateOfBirth = time.Time{} }, "INVALID_DATE_OF_BIRTH"},
		{"future date of birth", func(f *Fields) { f.DateOfBirth = refNow.AddDate(0, 0, 1) }, "INVALID_DATE_OF_BIRTH"},
		{"underage", func(f *Fields) { f.DateOfBirth = refNow.AddDate(-10, 0, 0) }, "UNDERAGE"},
		{"missing phone", func(f *Fields) { f.Phone = valueobject.PhoneNumber{} }, "INVALID_PHONE"},
		{"missing email", func(f *Fields) { f.Email = valueobject.Email{} }, "INVALID_EMAIL"},
		{"missing bank account", func(f *Fields) { f.BankAccount = valueobject.BankAccount{} }, "INVALID_BANK_ACCOUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			c, err := Create(f, refNow)
			assert.Nil(t, c)
			assertCode(t, err, tt.code)
		})
	}
}

func TestCreate_AgeBoundary(t *testing.T) {
	t.Run("turns 18 today", func(t *testing.T) {
		f := validFields()
		f.DateOfBirth = time.Date(2008, 10, 14, 0, 0, 0, 0, time.UTC)
		c, err := Create(f, refNow)
		require.NoError(t, err)
		assert.Equal(t, 18, c.AgeAt(refNow))
	})

	t.Run("turns 18 tomorrow", func(t *testing.T) {
		f := validFields()
		f.DateOfBirth = time.Date(2008, 10, 15, 0, 0, 0, 0, time.UTC)
		_, err := Create(f, refNow)
		assertCode(t, err, "UNDERAGE")
	})

	t.Run("born today is not in the future", func(t *testing.T) {
		f := validFields()
		f.DateOfBirth = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
		_, err := Create(f, refNow)
		assertCode(t, err, "UNDERAGE")
	})
}

func TestCustomer_AgeAt(t *testing.T) {
	f := validFields()
	f.DateOfBirth = time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
	c, err := Create(f, refNow)
	require.NoError(t, err)

	assert.Equal(t, 20, c.AgeAt(time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 21, c.AgeAt(time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 24, c.AgeAt(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
}

func TestReconstitute(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	c, err := Reconstitute(shared.NewIdentity(id, created, updated), validFields(), refNow)
	require.NoError(t, err)
	assert.True(t, c.IsPersisted())
	assert.Equal(t, id, c.ID())
	assert.Equal(t, created, c.CreatedAt())
	assert.Equal(t, updated, c.UpdatedAt())

	f := validFields()
	f.LastName = ""
	_, err = Reconstitute(shared.NewIdentity(id, created, updated), f, refNow)
	assertCode(t, err, "INVALID_LAST_NAME")
}

func TestCustomer_Fields(t *testing.T) {
	c, err := Create(validFields(), refNow)
	require.NoError(t, err)

	again, err := Create(c.Fields(), refNow)
	require.NoError(t, err)
	assert.Equal(t, c.FullName(), again.FullName())
	assert.True(t, c.Phone().Equals(again.Phone()))
	assert.True(t, c.BankAccount().Equals(again.BankAccount()))
}

func TestCustomer_IsSamePerson(t *testing.T) {
	a, err := Create(validFields(), refNow)
	require.NoError(t, err)

	f := validFields()
	f.FirstName = "JOHN"
	f.LastName = "doe"
	f.Email = valueobject.MustNewEmail("other@example.com")
	b, err := Create(f, refNow)
	require.NoError(t, err)
	assert.True(t, a.IsSamePerson(b))
	assert.False(t, a.HasSameEmail(b))

	f.DateOfBirth = f.DateOfBirth.AddDate(0, 0, 1)
	c, err := Create(f, refNow)
	require.NoError(t, err)
	assert.False(t, a.IsSamePerson(c))
	assert.False(t, a.IsSamePerson(nil))
}

func TestCustomer_HasSameEmail(t *testing.T) {
	a, err := Create(validFields(), refNow)
	require.NoError(t, err)

	f := validFields()
	f.FirstName = "Jane"
	f.Email = valueobject.MustNewEmail("  JOHN.DOE@example.com")
	b, err := Create(f, refNow)
	require.NoError(t, err)

	assert.True(t, a.HasSameEmail(b))
	assert.False(t, a.HasSameEmail(nil))
}

func TestErrors(t *testing.T) {
	assert.True(t, shared.IsConflict(ErrEmailTaken()))
	assert.True(t, shared.IsConflict(ErrDuplicatePerson()))

	id := uuid.MustParse("6f1c2c1e-8d1a-4ad3-9a53-3f4b5f0c2a11")
	err := ErrNotFoundByID(id)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Customer with ID 6f1c2c1e-8d1a-4ad3-9a53-3f4b5f0c2a11 not found", err.Error())
	assert.Equal(t, "Customer with email a@b.com not found", ErrNotFoundByEmail("a@b.com").Error())
}
