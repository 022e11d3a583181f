package customer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/infrastructure/telemetry"
)

// DeleteCustomerHandler removes customers
type DeleteCustomerHandler struct {
	repo customer.Repository
	deps
}

// NewDeleteCustomerHandler creates a new DeleteCustomerHandler
func NewDeleteCustomerHandler(repo customer.Repository, opts ...Option) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo, deps: newDeps(opts)}
}

// Handle confirms the customer exists and deletes it
func (h *DeleteCustomerHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "customer", "delete",
		telemetry.WithAttribute(telemetry.SpanAttrCustomerID, cmd.ID.String()))
	defer span.End()
	defer h.metrics.ObserveOperation("delete", time.Now())

	if err := h.handle(ctx, cmd); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	h.metrics.IncrementDeleted()
	return nil
}

func (h *DeleteCustomerHandler) handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	if _, err := h.repo.FindByID(ctx, cmd.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return customer.ErrNotFoundByID(cmd.ID)
		}
		return fmt.Errorf("failed to load customer: %w", err)
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return customer.ErrNotFoundByID(cmd.ID)
		}
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
