package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for customer persistence.
// Lookups return shared.ErrNotFound when nothing matches.
type Repository interface {
	// Create persists a new customer and returns it with its assigned ID and timestamps
	Create(ctx context.Context, c *Customer) (*Customer, error)

	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by normalized email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByFullNameAndDateOfBirth finds a customer by case-insensitive name and date of birth
	FindByFullNameAndDateOfBirth(ctx context.Context, firstName, lastName string, dob time.Time) (*Customer, error)

	// FindMany returns customers newest first. A nil limit means no limit, a nil offset means 0.
	FindMany(ctx context.Context, limit, offset *int) ([]*Customer, error)

	// Count returns the total number of customers
	Count(ctx context.Context) (int64, error)

	// Update replaces a stored customer with the given snapshot
	Update(ctx context.Context, c *Customer) (*Customer, error)

	// Delete removes a customer by ID
	Delete(ctx context.Context, id uuid.UUID) error
}
