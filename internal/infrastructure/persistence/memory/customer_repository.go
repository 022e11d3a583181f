// Package memory provides an in-process customer repository for tests and local runs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
)

type entry struct {
	customer *customer.Customer
	seq      int64
}

// CustomerRepository is a concurrency-safe in-memory implementation of customer.Repository.
// It enforces the same unique keys as the database schema.
type CustomerRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]entry
	nextSeq int64
	now     func() time.Time
}

// NewCustomerRepository creates an empty repository
func NewCustomerRepository() *CustomerRepository {
	return NewCustomerRepositoryWithClock(time.Now)
}

// NewCustomerRepositoryWithClock creates an empty repository that stamps records with now
func NewCustomerRepositoryWithClock(now func() time.Time) *CustomerRepository {
	return &CustomerRepository{
		byID: make(map[uuid.UUID]entry),
		now:  now,
	}
}

// Create stores a new customer with a fresh ID
func (r *CustomerRepository) Create(_ context.Context, c *customer.Customer) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUniqueLocked(c, uuid.Nil); err != nil {
		return nil, err
	}

	now := r.now()
	createdAt, updatedAt := c.CreatedAt(), c.UpdatedAt()
	if createdAt.IsZero() {
		createdAt = now
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	saved, err := customer.Reconstitute(shared.NewIdentity(uuid.New(), createdAt, updatedAt), c.Fields(), now)
	if err != nil {
		return nil, err
	}

	r.nextSeq++
	r.byID[saved.ID()] = entry{customer: saved, seq: r.nextSeq}
	return saved, nil
}

// FindByID finds a customer by its ID
func (r *CustomerRepository) FindByID(_ context.Context, id uuid.UUID) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return e.customer, nil
}

// FindByEmail finds a customer by normalized email
func (r *CustomerRepository) FindByEmail(_ context.Context, email string) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, e := range r.byID {
		if e.customer.Email().Value() == email {
			return e.customer, nil
		}
	}
	return nil, shared.ErrNotFound
}

// FindByFullNameAndDateOfBirth finds a customer by case-insensitive name and date of birth
func (r *CustomerRepository) FindByFullNameAndDateOfBirth(_ context.Context, firstName, lastName string, dob time.Time) (*customer.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c := r.findPersonLocked(firstName, lastName, dob); c != nil {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

// FindMany returns customers newest first
func (r *CustomerRepository) FindMany(_ context.Context, limit, offset *int) ([]*customer.Customer, error) {
	r.mu.RLock()
	entries := make([]entry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		ci, cj := entries[i].customer.CreatedAt(), entries[j].customer.CreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return entries[i].seq > entries[j].seq
	})

	start := 0
	if offset != nil {
		start = *offset
	}
	if start > len(entries) {
		start = len(entries)
	}
	end := len(entries)
	if limit != nil && *limit < end-start {
		end = start + *limit
	}

	result := make([]*customer.Customer, 0, end-start)
	for _, e := range entries[start:end] {
		result = append(result, e.customer)
	}
	return result, nil
}

// Count returns the number of stored customers
func (r *CustomerRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

// Update replaces a stored customer
func (r *CustomerRepository) Update(_ context.Context, c *customer.Customer) (*customer.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[c.ID()]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if err := r.checkUniqueLocked(c, c.ID()); err != nil {
		return nil, err
	}
	r.byID[c.ID()] = entry{customer: c, seq: e.seq}
	return c, nil
}

// Delete removes a customer by ID
func (r *CustomerRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// ExistsByEmail returns true if a customer uses the email
func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

// ExistsByFullNameAndDateOfBirth returns true if a customer has the name and date of birth
func (r *CustomerRepository) ExistsByFullNameAndDateOfBirth(ctx context.Context, firstName, lastName string, dob time.Time) (bool, error) {
	_, err := r.FindByFullNameAndDateOfBirth(ctx, firstName, lastName, dob)
	return err == nil, nil
}

func (r *CustomerRepository) findPersonLocked(firstName, lastName string, dob time.Time) *customer.Customer {
	day := customer.DateOnly(dob)
	for _, e := range r.byID {
		c := e.customer
		if strings.EqualFold(c.FirstName(), firstName) &&
			strings.EqualFold(c.LastName(), lastName) &&
			c.DateOfBirth().Equal(day) {
			return c
		}
	}
	return nil
}

// checkUniqueLocked mirrors the unique indexes of the customers table
func (r *CustomerRepository) checkUniqueLocked(c *customer.Customer, self uuid.UUID) error {
	for id, e := range r.byID {
		if id == self {
			continue
		}
		if e.customer.HasSameEmail(c) {
			return customer.ErrEmailTaken()
		}
		if e.customer.IsSamePerson(c) {
			return customer.ErrDuplicatePerson()
		}
	}
	return nil
}

var _ customer.Repository = (*CustomerRepository)(nil)
