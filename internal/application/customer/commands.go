package customer

import (
	"time"

	"github.com/google/uuid"
)

// CreateCustomerCommand carries the raw fields of a new customer
type CreateCustomerCommand struct {
	FirstName         string
	LastName          string
	DateOfBirth       time.Time
	PhoneNumber       string
	Email             string
	BankAccountNumber string
}

// UpdateCustomerCommand carries a partial update. Nil fields keep their current value.
type UpdateCustomerCommand struct {
	ID                uuid.UUID
	FirstName         *string
	LastName          *string
	DateOfBirth       *time.Time
	PhoneNumber       *string
	Email             *string
	BankAccountNumber *string
}

// DeleteCustomerCommand identifies the customer to remove
type DeleteCustomerCommand struct {
	ID uuid.UUID
}

// GetCustomerByIDQuery looks a customer up by ID
type GetCustomerByIDQuery struct {
	ID uuid.UUID
}

// GetCustomerByEmailQuery looks a customer up by email
type GetCustomerByEmailQuery struct {
	Email string
}

// GetCustomersQuery requests a page of customers, newest first.
// A nil Limit means no limit; a nil Offset means 0.
type GetCustomersQuery struct {
	Limit  *int
	Offset *int
}
