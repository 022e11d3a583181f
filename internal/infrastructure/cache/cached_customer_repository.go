package cache

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

// CachedCustomerRepository decorates a customer.Repository with read-through
// caching of FindByID and FindByEmail. Writes go to the repository first and
// then refresh or drop the cache entries. Cache failures are logged and never
// fail the call.
type CachedCustomerRepository struct {
	customer.Repository
	cache  CustomerCache
	logger *zap.Logger
}

// NewCachedCustomerRepository wraps repo with cache
func NewCachedCustomerRepository(repo customer.Repository, cache CustomerCache, logger *zap.Logger) *CachedCustomerRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedCustomerRepository{
		Repository: repo,
		cache:      cache,
		logger:     logger.Named("customer_cache"),
	}
}

// Create stores the customer and primes the cache
func (r *CachedCustomerRepository) Create(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	saved, err := r.Repository.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	r.set(ctx, saved)
	return saved, nil
}

// FindByID serves from the cache when possible
func (r *CachedCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	if c, ok := r.get(ctx, id); ok {
		return c, nil
	}

	c, err := r.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, c)
	return c, nil
}

// FindByEmail resolves the email through the cached index when possible.
// An index entry pointing at a customer with a different email is stale and dropped.
func (r *CachedCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	normalized := valueobject.NormalizeEmail(email)

	id, ok, err := r.cache.LookupEmail(ctx, normalized)
	if err != nil {
		r.logger.Warn("email index lookup failed", zap.Error(err))
	}
	if ok {
		if c, hit := r.get(ctx, id); hit {
			if c.Email().Value() == normalized {
				return c, nil
			}
			r.invalidate(ctx, uuid.Nil, normalized)
		}
	}

	c, err := r.Repository.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, err
	}
	r.set(ctx, c)
	return c, nil
}

// Update writes through and refreshes the cached entry. The previous email
// index entry is dropped when the email changed.
func (r *CachedCustomerRepository) Update(ctx context.Context, c *customer.Customer) (*customer.Customer, error) {
	var previousEmail string
	if prev, ok := r.get(ctx, c.ID()); ok && !prev.HasSameEmail(c) {
		previousEmail = prev.Email().Value()
	}

	updated, err := r.Repository.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, updated.ID(), previousEmail)
	r.set(ctx, updated)
	return updated, nil
}

// Delete removes the customer and its cache entries
func (r *CachedCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var email string
	if prev, ok := r.get(ctx, id); ok {
		email = prev.Email().Value()
	}

	if err := r.Repository.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, email)
	return nil
}

func (r *CachedCustomerRepository) get(ctx context.Context, id uuid.UUID) (*customer.Customer, bool) {
	c, ok, err := r.cache.Get(ctx, id)
	if err != nil {
		r.logger.Warn("cache get failed", zap.String("customer_id", id.String()), zap.Error(err))
		return nil, false
	}
	return c, ok
}

func (r *CachedCustomerRepository) set(ctx context.Context, c *customer.Customer) {
	if err := r.cache.Set(ctx, c); err != nil {
		r.logger.Warn("cache set failed", zap.String("customer_id", c.ID().String()), zap.Error(err))
	}
}

func (r *CachedCustomerRepository) invalidate(ctx context.Context, id uuid.UUID, emails ...string) {
	if err := r.cache.Invalidate(ctx, id, emails...); err != nil {
		r.logger.Warn("cache invalidate failed", zap.String("customer_id", id.String()), zap.Error(err))
	}
}

var _ customer.Repository = (*CachedCustomerRepository)(nil)
