package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const supplierColumns = `id, name, slug, logo, email, phone, address, type, created_at, updated_at`

// supplierRepository implements the SupplierRepository interface using PostgreSQL.
type supplierRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSupplierRepository creates a new PostgreSQL-backed supplier repository.
func NewSupplierRepository(pool *pgxpool.Pool, logger zerolog.Logger) SupplierRepository {
	return &supplierRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "supplier").Logger(),
	}
}

// GetIDBySlug resolves a supplier slug to its ID.
func (r *supplierRepository) GetIDBySlug(ctx context.Context, slug string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM suppliers WHERE slug = $1`, slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("slug", slug).Msg("supplier slug not found")
			return "", nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to resolve supplier slug")
		return "", fmt.Errorf("failed to resolve supplier slug: %w", err)
	}
	return id, nil
}

// GetByID retrieves a supplier by ID.
func (r *supplierRepository) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// GetBySlug retrieves a supplier by slug.
func (r *supplierRepository) GetBySlug(ctx context.Context, slug string) (*model.Supplier, error) {
	return r.getOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE slug = $1`, slug)
}

// List returns all suppliers ordered by name.
func (r *supplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query suppliers")
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []model.Supplier{}
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan supplier row")
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, *s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating supplier rows")
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}

	return suppliers, nil
}

// Create inserts a supplier and fills in its timestamps.
func (r *supplierRepository) Create(ctx context.Context, s *model.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, slug, logo, email, phone, address, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Slug, s.Logo, s.Email, s.Phone, s.Address, s.Type).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("supplier_id", s.ID).Msg("failed to create supplier")
		return fmt.Errorf("failed to create supplier: %w", err)
	}

	return nil
}

// Upsert inserts a supplier or updates the existing one with the same slug.
func (r *supplierRepository) Upsert(ctx context.Context, s *model.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, slug, logo, email, phone, address, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, logo = EXCLUDED.logo, email = EXCLUDED.email,
			phone = EXCLUDED.phone, address = EXCLUDED.address, type = EXCLUDED.type,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, s.ID, s.Name, s.Slug, s.Logo, s.Email, s.Phone, s.Address, s.Type).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", s.Slug).Msg("failed to upsert supplier")
		return fmt.Errorf("failed to upsert supplier: %w", err)
	}

	return nil
}

// Update overwrites a supplier. Returns nil when it does not exist.
func (r *supplierRepository) Update(ctx context.Context, s *model.Supplier) (*model.Supplier, error) {
	query := `
		UPDATE suppliers
		SET name = $2, slug = $3, logo = $4, email = $5, phone = $6, address = $7, type = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + supplierColumns

	updated, err := scanSupplier(r.pool.QueryRow(ctx, query,
		s.ID, s.Name, s.Slug, s.Logo, s.Email, s.Phone, s.Address, s.Type))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("supplier_id", s.ID).Msg("failed to update supplier")
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return updated, nil
}

// Delete removes a supplier and reports whether it existed.
func (r *supplierRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to delete supplier")
		return false, fmt.Errorf("failed to delete supplier: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountProducts returns how many products reference the supplier.
func (r *supplierRepository) CountProducts(ctx context.Context, id string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE supplier_id = $1`, id).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to count supplier products")
		return 0, fmt.Errorf("failed to count supplier products: %w", err)
	}
	return count, nil
}

func (r *supplierRepository) getOne(ctx context.Context, query string, arg string) (*model.Supplier, error) {
	s, err := scanSupplier(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("key", arg).Msg("supplier not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("key", arg).Msg("failed to query supplier")
		return nil, fmt.Errorf("failed to query supplier: %w", err)
	}
	return s, nil
}

func scanSupplier(row pgx.Row) (*model.Supplier, error) {
	var s model.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Logo, &s.Email, &s.Phone, &s.Address, &s.Type, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
