// Package cache provides read-through caching of customers in Redis or process memory.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// CustomerCache stores customer snapshots by ID plus an email to ID index.
// A miss is reported as ok=false with a nil error.
type CustomerCache interface {
	Get(ctx context.Context, id uuid.UUID) (c *customer.Customer, ok bool, err error)
	LookupEmail(ctx context.Context, email string) (id uuid.UUID, ok bool, err error)
	Set(ctx context.Context, c *customer.Customer) error
	Invalidate(ctx context.Context, id uuid.UUID, emails ...string) error
	Close() error
}

// snapshot is the serialized form of a customer
type snapshot struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	BankAccount string    `json:"bank_account"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func encodeCustomer(c *customer.Customer) ([]byte, error) {
	return json.Marshal(snapshot{
		ID:          c.ID(),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		DateOfBirth: c.DateOfBirth().Format(dateLayout),
		Phone:       c.Phone().E164(),
		Email:       c.Email().Value(),
		BankAccount: c.BankAccount().Value(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	})
}

func decodeCustomer(data []byte, now time.Time) (*customer.Customer, error) {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode cached customer: %w", err)
	}

	dob, err := time.Parse(dateLayout, s.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("decode cached customer %s: %w", s.ID, err)
	}
	phone, err := valueobject.NewPhoneNumberWithOptions(s.Phone, valueobject.PhoneOptions{Policy: valueobject.PhonePolicyMobileOrFixed})
	if err != nil {
		return nil, fmt.Errorf("decode cached customer %s: %w", s.ID, err)
	}
	email, err := valueobject.NewEmail(s.Email)
	if err != nil {
		return nil, fmt.Errorf("decode cached customer %s: %w", s.ID, err)
	}
	account, err := valueobject.NewBankAccount(s.BankAccount)
	if err != nil {
		return nil, fmt.Errorf("decode cached customer %s: %w", s.ID, err)
	}

	return customer.Reconstitute(shared.NewIdentity(s.ID, s.CreatedAt, s.UpdatedAt), customer.Fields{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		DateOfBirth: dob,
		Phone:       phone,
		Email:       email,
		BankAccount: account,
	}, now)
}
