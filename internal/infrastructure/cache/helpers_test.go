package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/domain/shared/valueobject"
)

var refNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func persistedCustomer(t *testing.T, first, email string) *customer.Customer {
	t.Helper()
	c, err := customer.Reconstitute(shared.NewIdentity(uuid.New(), refNow, refNow), customer.Fields{
		FirstName:   first,
		LastName:    "Tester",
		DateOfBirth: time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC),
		Phone:       valueobject.MustNewPhoneNumber("+14155552671"),
		Email:       valueobject.MustNewEmail(email),
		BankAccount: valueobject.MustNewBankAccount("4539578763621486"),
	}, refNow)
	require.NoError(t, err)
	return c
}

// countingRepository counts the lookups that reach the wrapped repository
type countingRepository struct {
	customer.Repository
	byID    atomic.Int32
	byEmail atomic.Int32
}

func (r *countingRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	r.byID.Add(1)
	return r.Repository.FindByID(ctx, id)
}

func (r *countingRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	r.byEmail.Add(1)
	return r.Repository.FindByEmail(ctx, email)
}
