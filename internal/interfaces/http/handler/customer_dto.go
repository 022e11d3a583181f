package handler

import (
	"time"

	"github.com/google/uuid"

	appcustomer "github.com/customerhub/backend/internal/application/customer"
	"github.com/customerhub/backend/internal/domain/shared"
)

// CreateCustomerRequest is the body of POST /customers
type CreateCustomerRequest struct {
	FirstName         string `json:"first_name" binding:"required,max=100,alphaspace"`
	LastName          string `json:"last_name" binding:"required,max=100,alphaspace"`
	DateOfBirth       string `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	PhoneNumber       string `json:"phone_number" binding:"required,max=32"`
	Email             string `json:"email" binding:"required,max=255"`
	BankAccountNumber string `json:"bank_account_number" binding:"required,max=34"`
}

// ToCommand converts the request into a create command
func (r CreateCustomerRequest) ToCommand() (appcustomer.CreateCustomerCommand, error) {
	dob, err := parseDate(r.DateOfBirth)
	if err != nil {
		return appcustomer.CreateCustomerCommand{}, err
	}
	return appcustomer.CreateCustomerCommand{
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		DateOfBirth:       dob,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		BankAccountNumber: r.BankAccountNumber,
	}, nil
}

// UpdateCustomerRequest is the body of PUT and PATCH /customers/:id.
// Absent fields keep their stored value.
type UpdateCustomerRequest struct {
	FirstName         *string `json:"first_name" binding:"omitempty,max=100,alphaspace"`
	LastName          *string `json:"last_name" binding:"omitempty,max=100,alphaspace"`
	DateOfBirth       *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	PhoneNumber       *string `json:"phone_number" binding:"omitempty,max=32"`
	Email             *string `json:"email" binding:"omitempty,max=255"`
	BankAccountNumber *string `json:"bank_account_number" binding:"omitempty,max=34"`
}

// ToCommand converts the request into an update command for id
func (r UpdateCustomerRequest) ToCommand(id uuid.UUID) (appcustomer.UpdateCustomerCommand, error) {
	cmd := appcustomer.UpdateCustomerCommand{
		ID:                id,
		FirstName:         r.FirstName,
		LastName:          r.LastName,
		PhoneNumber:       r.PhoneNumber,
		Email:             r.Email,
		BankAccountNumber: r.BankAccountNumber,
	}
	if r.DateOfBirth != nil {
		dob, err := parseDate(*r.DateOfBirth)
		if err != nil {
			return appcustomer.UpdateCustomerCommand{}, err
		}
		cmd.DateOfBirth = &dob
	}
	return cmd, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(appcustomer.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewValidationError("INVALID_DATE_OF_BIRTH", "date_of_birth must be a date in YYYY-MM-DD format")
	}
	return t, nil
}
