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

// productColumns selects a product together with the display fields of its supplier.
const productColumns = `
	p.id, p.name, p.slug, p.price, p.details, p.size, p.published, p.out_of_stock,
	p.image_url, p.images, p.rating, p.review_count, p.supplier_id, p.created_at, p.updated_at,
	s.id, s.name, s.slug, s.logo
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// ListPublished returns published products ordered by creation time, newest first.
func (r *productRepository) ListPublished(ctx context.Context, supplierID string, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.published = TRUE`
	args := []any{limit, offset}
	if supplierID != "" {
		query += ` AND p.supplier_id = $3`
		args = append(args, supplierID)
	}
	query += `
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Str("supplier_id", supplierID).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query published products")
		return nil, fmt.Errorf("failed to query published products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.id = ANY($1)
		ORDER BY p.name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	return r.collect(rows)
}

// ListRelated returns published products of the same supplier, excluding productID.
func (r *productRepository) ListRelated(ctx context.Context, productID, supplierID string, limit int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE p.published = TRUE AND p.supplier_id = $1 AND p.id <> $2
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, supplierID, productID, limit)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query related products")
		return nil, fmt.Errorf("failed to query related products: %w", err)
	}

	return r.collect(rows)
}

// Create inserts a product and fills in its timestamps.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (id, name, slug, price, details, size, published, out_of_stock,
			image_url, images, rating, review_count, supplier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		p.ID, p.Name, p.Slug, p.Price, p.Details, p.Size, p.Published, p.OutOfStock,
		p.ImageURL, nonNilStrings(p.Images), p.Rating, p.ReviewCount, p.SupplierID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID).Msg("product created successfully")

	return nil
}

// Update overwrites the editable fields of a product.
func (r *productRepository) Update(ctx context.Context, p *model.Product) (*model.Product, error) {
	query := `
		UPDATE products
		SET name = $2, slug = $3, price = $4, details = $5, size = $6, published = $7,
			out_of_stock = $8, image_url = $9, images = $10, supplier_id = $11, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Slug, p.Price, p.Details, p.Size, p.Published,
		p.OutOfStock, p.ImageURL, nonNilStrings(p.Images), p.SupplierID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, p.ID)
}

// SetPublished shows or hides a product in the storefront.
func (r *productRepository) SetPublished(ctx context.Context, id string, published bool) (bool, error) {
	return r.exec(ctx, "set published",
		`UPDATE products SET published = $2, updated_at = NOW() WHERE id = $1`, id, published)
}

// SetOutOfStock marks a product as sold out or back in stock.
func (r *productRepository) SetOutOfStock(ctx context.Context, id string, outOfStock bool) (bool, error) {
	return r.exec(ctx, "set stock",
		`UPDATE products SET out_of_stock = $2, updated_at = NOW() WHERE id = $1`, id, outOfStock)
}

// SetImages replaces the primary image and the image list.
func (r *productRepository) SetImages(ctx context.Context, id, imageURL string, images []string) (bool, error) {
	return r.exec(ctx, "set images",
		`UPDATE products SET image_url = $2, images = $3, updated_at = NOW() WHERE id = $1`,
		id, imageURL, nonNilStrings(images))
}

func (r *productRepository) exec(ctx context.Context, op, query string, id string, args ...any) (bool, error) {
	tag, err := r.pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msgf("failed to %s", op)
		return false, fmt.Errorf("failed to %s: %w", op, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// scanProduct reads one row selected with productColumns.
func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	var s model.Supplier
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Price, &p.Details, &p.Size, &p.Published, &p.OutOfStock,
		&p.ImageURL, &p.Images, &p.Rating, &p.ReviewCount, &p.SupplierID, &p.CreatedAt, &p.UpdatedAt,
		&s.ID, &s.Name, &s.Slug, &s.Logo,
	)
	if err != nil {
		return nil, err
	}
	p.Supplier = &s
	return &p, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
