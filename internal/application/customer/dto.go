package customer

import (
	"time"

	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
)

// DateLayout is the wire format of a date of birth
const DateLayout = "2006-01-02"

// CustomerResponse is the transport representation of a customer
type CustomerResponse struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	FullName          string    `json:"full_name"`
	DateOfBirth       string    `json:"date_of_birth"`
	Age               int       `json:"age"`
	PhoneNumber       string    `json:"phone_number"`
	Email             string    `json:"email"`
	BankAccountNumber string    `json:"bank_account_number"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CustomerListResponse is a page of customers
type CustomerListResponse struct {
	Items  []CustomerResponse `json:"items"`
	Total  int64              `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// ToCustomerResponse converts a domain Customer to a CustomerResponse, computing the age on now
func ToCustomerResponse(c *customer.Customer, now time.Time) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID(),
		FirstName:         c.FirstName(),
		LastName:          c.LastName(),
		FullName:          c.FullName(),
		DateOfBirth:       c.DateOfBirth().Format(DateLayout),
		Age:               c.AgeAt(now),
		PhoneNumber:       c.Phone().E164(),
		Email:             c.Email().Value(),
		BankAccountNumber: c.BankAccount().Masked(),
		CreatedAt:         c.CreatedAt().UTC(),
		UpdatedAt:         c.UpdatedAt().UTC(),
	}
}

// ToCustomerListResponse converts a page of customers
func ToCustomerListResponse(p shared.Page[*customer.Customer], now time.Time) CustomerListResponse {
	items := make([]CustomerResponse, len(p.Items))
	for i, c := range p.Items {
		items[i] = ToCustomerResponse(c, now)
	}
	return CustomerListResponse{
		Items:  items,
		Total:  p.Total,
		Limit:  p.Limit,
		Offset: p.Offset,
	}
}
