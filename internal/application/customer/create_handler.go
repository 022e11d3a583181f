package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
	"github.com/customerhub/backend/internal/infrastructure/telemetry"
)

// CreateCustomerHandler registers new customers
type CreateCustomerHandler struct {
	repo customer.Repository
	deps
}

// NewCreateCustomerHandler creates a new CreateCustomerHandler
func NewCreateCustomerHandler(repo customer.Repository, opts ...Option) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo, deps: newDeps(opts)}
}

// Handle validates the command, rejects duplicates by email and then by name and
// date of birth, and persists the new customer
func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "create")
	defer span.End()
	defer h.metrics.ObserveOperation("create", time.Now())

	created, err := h.handle(ctx, cmd)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrCustomerID, created.ID().String())
	h.metrics.IncrementCreated()
	return created, nil
}

func (h *CreateCustomerHandler) handle(ctx context.Context, cmd CreateCustomerCommand) (*customer.Customer, error) {
	email, err := valueobject.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	phone, err := valueobject.NewPhoneNumberWithOptions(cmd.PhoneNumber, h.phoneOptions)
	if err != nil {
		return nil, err
	}
	account, err := valueobject.NewBankAccount(cmd.BankAccountNumber)
	if err != nil {
		return nil, err
	}

	firstName := customer.NormalizeName(cmd.FirstName)
	lastName := customer.NormalizeName(cmd.LastName)
	dob := customer.DateOnly(cmd.DateOfBirth)

	existing, err := findOptional(h.repo.FindByEmail(ctx, email.Value()))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		h.metrics.IncrementConflict(customer.CodeEmailTaken)
		return nil, customer.ErrEmailTaken()
	}

	existing, err = findOptional(h.repo.FindByFullNameAndDateOfBirth(ctx, firstName, lastName, dob))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		h.metrics.IncrementConflict(customer.CodeDuplicatePerson)
		return nil, customer.ErrDuplicatePerson()
	}

	c, err := customer.Create(customer.Fields{
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dob,
		Phone:       phone,
		Email:       email,
		BankAccount: account,
	}, h.now())
	if err != nil {
		return nil, err
	}

	saved, err := h.repo.Create(ctx, c)
	if err != nil {
		if shared.IsConflict(err) {
			h.metrics.IncrementConflict(conflictCode(err))
			return nil, err
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return saved, nil
}

// findOptional turns shared.ErrNotFound into a nil result
func findOptional(c *customer.Customer, err error) (*customer.Customer, error) {
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}
	return c, nil
}

func conflictCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
