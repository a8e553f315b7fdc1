package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

// wishlistRepository implements the WishlistRepository interface using PostgreSQL.
type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

// Exists reports whether the user already saved the product.
func (r *wishlistRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID,
	).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to check wishlist item")
		return false, fmt.Errorf("failed to check wishlist item: %w", err)
	}
	return exists, nil
}

// Add inserts a wishlist item under its ID, assigning one when it is unset,
// and fills in the creation time.
func (r *wishlistRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	query := `
		INSERT INTO wishlist_items (id, user_id, product_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	err := r.pool.QueryRow(ctx, query, item.ID, item.UserID, item.ProductID).Scan(&item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Debug().Str("user_id", item.UserID).Str("product_id", item.ProductID).Msg("wishlist item already exists")
			return model.ErrWishlistItemExists
		}
		r.logger.Error().Err(err).Str("user_id", item.UserID).Str("product_id", item.ProductID).Msg("failed to add wishlist item")
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// Remove deletes a wishlist item.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove wishlist item")
		return 0, fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByUser returns the user's saved products, newest addition first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC, w.id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wishlist row")
			return nil, fmt.Errorf("failed to scan wishlist product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating wishlist rows")
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}

	return products, nil
}
