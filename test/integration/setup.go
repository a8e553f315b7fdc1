package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, applies the migrations
// and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()
	pool, err := database.Open(ctx, connStr, database.PoolOptions{MaxConns: 10, MinConns: 2}, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, "up", logger); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedSupplier inserts a supplier and returns its id.
func SeedSupplier(t *testing.T, pool *pgxpool.Pool, id, slug string) string {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO suppliers (id, name, slug) VALUES ($1, $2, $3)",
		id, "Supplier "+slug, slug,
	)
	if err != nil {
		t.Fatalf("failed to seed supplier %s: %v", slug, err)
	}
	return id
}

// SeedProducts inserts count published products for a supplier. The newest
// product is prefix-01, so the feed returns them in id order.
func SeedProducts(t *testing.T, pool *pgxpool.Pool, supplierID, prefix string, count int) []string {
	t.Helper()

	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	ids := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("%s-%02d", prefix, i)
		createdAt := base.Add(time.Duration(count-i) * time.Minute)
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, slug, price, published, supplier_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, TRUE, $5, $6, $6)`,
			id, "Product "+id, id, fmt.Sprintf("%d.50", i), supplierID, createdAt,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", id, err)
		}
		ids = append(ids, id)
	}
	return ids
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"seo_entries", "wishlist_items", "promotions", "order_items", "orders", "products", "suppliers"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
