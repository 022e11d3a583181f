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

// UpdateCustomerHandler applies partial updates to existing customers
type UpdateCustomerHandler struct {
	repo customer.Repository
	deps
}

// NewUpdateCustomerHandler creates a new UpdateCustomerHandler
func NewUpdateCustomerHandler(repo customer.Repository, opts ...Option) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{repo: repo, deps: newDeps(opts)}
}

// Handle merges the provided fields over the stored customer, re-checks
// uniqueness for the fields that changed, and stores the new snapshot
func (h *UpdateCustomerHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "update",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, cmd.ID.String()))
	defer span.End()
	defer h.metrics.ObserveOperation("update", time.Now())

	updated, err := h.handle(ctx, cmd)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	h.metrics.IncrementUpdated()
	return updated, nil
}

func (h *UpdateCustomerHandler) handle(ctx context.Context, cmd UpdateCustomerCommand) (*customer.Customer, error) {
	current, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, customer.ErrNotFoundByID(cmd.ID)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	merged, err := h.merge(current.Fields(), cmd)
	if err != nil {
		return nil, err
	}

	if !merged.Email.Equals(current.Email()) {
		owner, err := findOptional(h.repo.FindByEmail(ctx, merged.Email.Value()))
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID() != current.ID() {
			h.metrics.IncrementConflict(customer.CodeEmailTaken)
			return nil, customer.ErrEmailTaken()
		}
	}

	if merged.FirstName != current.FirstName() ||
		merged.LastName != current.LastName() ||
		!merged.DateOfBirth.Equal(current.DateOfBirth()) {
		owner, err := findOptional(h.repo.FindByFullNameAndDateOfBirth(ctx, merged.FirstName, merged.LastName, merged.DateOfBirth))
		if err != nil {
			return nil, err
		}
		if owner != nil && owner.ID() != current.ID() {
			h.metrics.IncrementConflict(customer.CodeDuplicatePerson)
			return nil, customer.ErrDuplicatePerson()
		}
	}

	now := h.now()
	if !now.After(current.UpdatedAt()) {
		now = current.UpdatedAt().Add(TimestampPrecision)
	}
	next, err := customer.Reconstitute(
		shared.NewIdentity(current.ID(), current.CreatedAt(), now),
		merged,
		now,
	)
	if err != nil {
		return nil, err
	}

	saved, err := h.repo.Update(ctx, next)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, customer.ErrNotFoundByID(cmd.ID)
		}
		if shared.IsConflict(err) {
			h.metrics.IncrementConflict(conflictCode(err))
			return nil, err
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return saved, nil
}

// merge applies effective = provided ?? current to every field
func (h *UpdateCustomerHandler) merge(f customer.Fields, cmd UpdateCustomerCommand) (customer.Fields, error) {
	if cmd.FirstName != nil {
		f.FirstName = customer.NormalizeName(*cmd.FirstName)
	}
	if cmd.LastName != nil {
		f.LastName = customer.NormalizeName(*cmd.LastName)
	}
	if cmd.DateOfBirth != nil {
		f.DateOfBirth = customer.DateOnly(*cmd.DateOfBirth)
	}
	if cmd.Email != nil {
		email, err := valueobject.NewEmail(*cmd.Email)
		if err != nil {
			return f, err
		}
		f.Email = email
	}
	if cmd.PhoneNumber != nil {
		phone, err := valueobject.NewPhoneNumberWithOptions(*cmd.PhoneNumber, h.phoneOptions)
		if err != nil {
			return f, err
		}
		f.Phone = phone
	}
	if cmd.BankAccountNumber != nil {
		account, err := valueobject.NewBankAccount(*cmd.BankAccountNumber)
		if err != nil {
			return f, err
		}
		f.BankAccount = account
	}
	return f, nil
}
