package customer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/infrastructure/persistence/memory"
)

func intPtr(i int) *int { return &i }

func seedCustomers(t *testing.T, repo customer.Repository, n int) {
	t.Helper()
	create := NewCreateCustomerHandler(repo, WithClock(fixedClock))
	for i := 0; i < n; i++ {
		cmd := validCreateCommand()
		cmd.Email = fmt.Sprintf("customer%d@example.com", i)
		cmd.DateOfBirth = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		_, err := create.Handle(context.Background(), cmd)
		require.NoError(t, err)
	}
}

func TestGetCustomerByIDHandler(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository()
	created := mustCreate(t, repo)
	h := NewGetCustomerByIDHandler(repo)

	found, err := h.Handle(ctx, GetCustomerByIDQuery{ID: created.ID()})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())

	missing := uuid.New()
	_, err = h.Handle(ctx, GetCustomerByIDQuery{ID: missing})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Customer with ID "+missing.String()+" not found", err.Error())
}

func TestGetCustomerByEmailHandler(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository()
	created := mustCreate(t, repo)
	h := NewGetCustomerByEmailHandler(repo)

	found, err := h.Handle(ctx, GetCustomerByEmailQuery{Email: "  JOHN.DOE@example.COM"})
	require.NoError(t, err)
	assert.Equal(t, created.ID(), found.ID())

	_, err = h.Handle(ctx, GetCustomerByEmailQuery{Email: "nobody@example.com"})
	assert.True(t, shared.IsNotFound(err))
	assert.Equal(t, "Customer with email nobody@example.com not found", err.Error())

	_, err = h.Handle(ctx, GetCustomerByEmailQuery{Email: "not an email"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetCustomerByEmailHandler_InvalidEmailSkipsRepository(t *testing.T) {
	repo := new(MockCustomerRepository)
	_, err := NewGetCustomerByEmailHandler(repo).Handle(context.Background(), GetCustomerByEmailQuery{Email: "@@"})
	assert.True(t, shared.IsNotFound(err))
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestGetCustomersHandler_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewCustomerRepository()
	seedCustomers(t, repo, 25)
	h := NewGetCustomersHandler(repo)

	page, err := h.Handle(ctx, GetCustomersQuery{Limit: intPtr(10), Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, "customer24@example.com", page.Items[0].Email().Value())

	page, err = h.Handle(ctx, GetCustomersQuery{Limit: intPtr(10), Offset: intPtr(20)})
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, int64(25), page.Total)

	page, err = h.Handle(ctx, GetCustomersQuery{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 25)
	assert.Equal(t, 0, page.Limit)
	assert.Equal(t, 0, page.Offset)
}

func TestGetCustomersHandler_Errors(t *testing.T) {
	t.Run("negative limit", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		_, err := NewGetCustomersHandler(repo).Handle(context.Background(), GetCustomersQuery{Limit: intPtr(-1)})
		assert.True(t, shared.IsValidation(err))
		repo.AssertNotCalled(t, "FindMany", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("count failure", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("FindMany", mock.Anything, mock.Anything, mock.Anything).Return([]*customer.Customer{}, nil)
		repo.On("Count", mock.Anything).Return(int64(0), fmt.Errorf("timeout"))
		_, err := NewGetCustomersHandler(repo).Handle(context.Background(), GetCustomersQuery{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count customers")
	})
}

func TestToCustomerResponse(t *testing.T) {
	c := mustCustomer(t)
	resp := ToCustomerResponse(c, refNow)

	assert.Equal(t, c.ID(), resp.ID)
	assert.Equal(t, "John Doe", resp.FullName)
	assert.Equal(t, "1990-05-20", resp.DateOfBirth)
	assert.Equal(t, 36, resp.Age)
	assert.Equal(t, "+14155552671", resp.PhoneNumber)
	assert.Equal(t, "john.doe@example.com", resp.Email)
	assert.Equal(t, "*******8713", resp.BankAccountNumber)
	assert.Equal(t, refNow, resp.CreatedAt)

	list := ToCustomerListResponse(shared.NewPage([]*customer.Customer{c}, 7, intPtr(1), nil), refNow)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(7), list.Total)
	assert.Equal(t, 1, list.Limit)
}

func mustCreate(t *testing.T, repo customer.Repository) *customer.Customer {
	t.Helper()
	c, err := NewCreateCustomerHandler(repo, WithClock(fixedClock)).Handle(context.Background(), validCreateCommand())
	require.NoError(t, err)
	return c
}
