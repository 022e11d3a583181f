package models

import (
	"fmt"
	"time"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// CustomerModel is the persistence model for the Customer entity.
// The case-insensitive person index cannot be declared in tags; see AutoMigrate.
type CustomerModel struct {
	BaseModel
	FirstName         string    `gorm:"type:varchar(100);not null"`
	LastName          string    `gorm:"type:varchar(100);not null"`
	DateOfBirth       time.Time `gorm:"type:date;not null"`
	PhoneNumber       string    `gorm:"type:varchar(20);not null"`
	Email             string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email"`
	BankAccountNumber string    `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// storedPhoneOptions parses persisted E.164 numbers. Rows written under the
// looser policy must stay readable if the configured policy is tightened.
var storedPhoneOptions = valueobject.PhoneOptions{
	Region: valueobject.DefaultRegion,
	Policy: valueobject.PhonePolicyMobileOrFixed,
}

// ToDomain converts the row into a Customer, validating it against now
func (m *CustomerModel) ToDomain(now time.Time) (*customer.Customer, error) {
	phone, err := valueobject.NewPhoneNumberWithOptions(m.PhoneNumber, storedPhoneOptions)
	if err != nil {
		return nil, fmt.Errorf("customer %s: stored phone number: %w", m.ID, err)
	}
	email, err := valueobject.NewEmail(m.Email)
	if err != nil {
		return nil, fmt.Errorf("customer %s: stored email: %w", m.ID, err)
	}
	account, err := valueobject.NewBankAccount(m.BankAccountNumber)
	if err != nil {
		return nil, fmt.Errorf("customer %s: stored bank account: %w", m.ID, err)
	}

	c, err := customer.Reconstitute(m.Identity(), customer.Fields{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		DateOfBirth: m.DateOfBirth,
		Phone:       phone,
		Email:       email,
		BankAccount: account,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("customer %s: %w", m.ID, err)
	}
	return c, nil
}

// FromDomain populates the row from a Customer
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromIdentity(c.Identity)
	m.FirstName = c.FirstName()
	m.LastName = c.LastName()
	m.DateOfBirth = c.DateOfBirth()
	m.PhoneNumber = c.Phone().E164()
	m.Email = c.Email().Value()
	m.BankAccountNumber = c.BankAccount().Value()
}

// NewCustomerModel creates a row from a Customer
func NewCustomerModel(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// UpdateColumns returns the columns written by an update
func (m *CustomerModel) UpdateColumns() map[string]any {
	return map[string]any{
		"first_name":          m.FirstName,
		"last_name":           m.LastName,
		"date_of_birth":       m.DateOfBirth,
		"phone_number":        m.PhoneNumber,
		"email":               m.Email,
		"bank_account_number": m.BankAccountNumber,
		"updated_at":          m.UpdatedAt,
	}
}
