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

// GetCustomerByIDHandler loads a single customer by ID
type GetCustomerByIDHandler struct {
	repo customer.Repository
	deps
}

// NewGetCustomerByIDHandler creates a new GetCustomerByIDHandler
func NewGetCustomerByIDHandler(repo customer.Repository, opts ...Option) *GetCustomerByIDHandler {
	return &GetCustomerByIDHandler{repo: repo, deps: newDeps(opts)}
}

// Handle returns the customer or a not-found error
func (h *GetCustomerByIDHandler) Handle(ctx context.Context, q GetCustomerByIDQuery) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "get_by_id",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, q.ID.String()))
	defer span.End()
	defer h.metrics.ObserveOperation("get_by_id", time.Now())

	c, err := h.repo.FindByID(ctx, q.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = customer.ErrNotFoundByID(q.ID)
		} else {
			err = fmt.Errorf("failed to load customer: %w", err)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	return c, nil
}

// GetCustomerByEmailHandler loads a single customer by email
type GetCustomerByEmailHandler struct {
	repo customer.Repository
	deps
}

// NewGetCustomerByEmailHandler creates a new GetCustomerByEmailHandler
func NewGetCustomerByEmailHandler(repo customer.Repository, opts ...Option) *GetCustomerByEmailHandler {
	return &GetCustomerByEmailHandler{repo: repo, deps: newDeps(opts)}
}

// Handle normalizes the email and returns the matching customer or a not-found error.
// An address that is not a valid email cannot belong to anyone and is reported as not found.
func (h *GetCustomerByEmailHandler) Handle(ctx context.Context, q GetCustomerByEmailQuery) (*customer.Customer, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "get_by_email")
	defer span.End()
	defer h.metrics.ObserveOperation("get_by_email", time.Now())

	normalized := valueobject.NormalizeEmail(q.Email)
	email, err := valueobject.NewEmail(normalized)
	if err != nil {
		err = customer.ErrNotFoundByEmail(normalized)
		telemetry.RecordError(span, err)
		return nil, err
	}

	c, err := h.repo.FindByEmail(ctx, email.Value())
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			err = customer.ErrNotFoundByEmail(email.Value())
		} else {
			err = fmt.Errorf("failed to load customer: %w", err)
		}
		telemetry.RecordError(span, err)
		return nil, err
	}
	return c, nil
}

// GetCustomersHandler returns pages of customers
type GetCustomersHandler struct {
	repo customer.Repository
	deps
}

// NewGetCustomersHandler creates a new GetCustomersHandler
func NewGetCustomersHandler(repo customer.Repository, opts ...Option) *GetCustomersHandler {
	return &GetCustomersHandler{repo: repo, deps: newDeps(opts)}
}

// Handle returns a page of customers, newest first, and the total number of customers
func (h *GetCustomersHandler) Handle(ctx context.Context, q GetCustomersQuery) (shared.Page[*customer.Customer], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "list")
	defer span.End()
	defer h.metrics.ObserveOperation("list", time.Now())

	if err := shared.ValidateWindow(q.Limit, q.Offset); err != nil {
		telemetry.RecordError(span, err)
		return shared.Page[*customer.Customer]{}, err
	}

	items, err := h.repo.FindMany(ctx, q.Limit, q.Offset)
	if err != nil {
		err = fmt.Errorf("failed to list customers: %w", err)
		telemetry.RecordError(span, err)
		return shared.Page[*customer.Customer]{}, err
	}

	total, err := h.repo.Count(ctx)
	if err != nil {
		err = fmt.Errorf("failed to count customers: %w", err)
		telemetry.RecordError(span, err)
		return shared.Page[*customer.Customer]{}, err
	}

	telemetry.SetAttributes(span, "result_count", len(items), "total", total)
	return shared.NewPage(items, total, q.Limit, q.Offset), nil
}
