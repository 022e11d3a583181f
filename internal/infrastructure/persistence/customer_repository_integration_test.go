//go:build integration

package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"

	"github.com/customerhub/backend/internal/domain/customer"
	"github.com/customerhub/backend/internal/domain/shared"
	"github.com/customerhub/backend/internal/infrastructure/migration"
	"github.com/customerhub/backend/migrations"
)

func newPostgresCustomerRepository(t *testing.T) *GormCustomerRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("customerhub_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(gormpostgres.Open(dsn))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Ping(ctx))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.NewFromFS(sqlDB, migrations.FS, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return NewGormCustomerRepository(db.DB).WithClock(func() time.Time { return refNow })
}

func TestGormCustomerRepository_Postgres(t *testing.T) {
	ctx := context.Background()
	repo := newPostgresCustomerRepository(t)

	ada, err := repo.Create(ctx, newCustomer(t, "Ada", "Lovelace", "ada@example.com"))
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "ADA@Example.com")
		require.NoError(t, err)
		assert.Equal(t, ada.ID(), found.ID())
		assert.True(t, found.DateOfBirth().Equal(ada.DateOfBirth()))
		assert.True(t, found.Phone().Equals(ada.Phone()))
		assert.True(t, found.BankAccount().Equals(ada.BankAccount()))
	})

	t.Run("email is unique", func(t *testing.T) {
		_, err := repo.Create(ctx, newCustomer(t, "Grace", "Hopper", "ada@example.com"))
		assert.ErrorIs(t, err, customer.ErrEmailTaken())
	})

	t.Run("person index ignores case", func(t *testing.T) {
		_, err := repo.Create(ctx, newCustomer(t, "ADA", "lovelace", "countess@example.com"))
		assert.ErrorIs(t, err, customer.ErrDuplicatePerson())
	})

	t.Run("delete", func(t *testing.T) {
		tmp, err := repo.Create(ctx, newCustomer(t, "Temp", "Person", "temp@example.com"))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, tmp.ID()))

		_, err = repo.FindByID(ctx, tmp.ID())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, tmp.ID()), shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_Postgres_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := newPostgresCustomerRepository(t)

	for i := range 5 {
		c, err := customer.Reconstitute(
			shared.NewIdentity(uuid.Nil, refNow.Add(time.Duration(i)*time.Minute), refNow.Add(time.Duration(i)*time.Minute)),
			newCustomer(t, "Person", fmt.Sprintf("Number %c", 'A'+i), fmt.Sprintf("p%d@example.com", i)).Fields(),
			refNow,
		)
		require.NoError(t, err)
		_, err = repo.Create(ctx, c)
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	limit, offset := 2, 1
	page, err := repo.FindMany(ctx, &limit, &offset)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Number D", page[0].LastName())
	assert.Equal(t, "Number C", page[1].LastName())
}
