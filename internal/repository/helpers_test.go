package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL testcontainer, applies the migrations and
// returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping repository test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.Open(ctx, connStr, database.PoolOptions{MaxConns: 5}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, "up", zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func seedSupplier(t *testing.T, pool *pgxpool.Pool, id, slug string) model.Supplier {
	t.Helper()

	s := model.Supplier{ID: id, Name: "Supplier " + id, Slug: slug}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO suppliers (id, name, slug) VALUES ($1, $2, $3)`, s.ID, s.Name, s.Slug)
	require.NoError(t, err)
	return s
}

// seedProducts inserts count published products for a supplier with strictly
// increasing creation times starting at base. IDs are prefix-01, prefix-02, ...
func seedProducts(t *testing.T, pool *pgxpool.Pool, supplierID, prefix string, count int, base time.Time) []string {
	t.Helper()

	query := `
		INSERT INTO products (id, name, price, published, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $5, $5)
	`

	ids := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("%s-%02d", prefix, i)
		_, err := pool.Exec(context.Background(), query,
			id, "Product "+id, decimal.NewFromInt(int64(i)), supplierID, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}
