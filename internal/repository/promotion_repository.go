package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const promotionColumns = `id, title, description, type, discount_value, discount_type, product_ids,
	minimum_order_value, start_date, end_date, image_url, active, created_at, updated_at`

// promotionRepository implements the PromotionRepository interface using PostgreSQL.
type promotionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromotionRepository {
	return &promotionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promotion").Logger(),
	}
}

// Create inserts a promotion and fills in its timestamps.
func (r *promotionRepository) Create(ctx context.Context, p *model.Promotion) error {
	query := `
		INSERT INTO promotions (id, title, description, type, discount_value, discount_type, product_ids,
			minimum_order_value, start_date, end_date, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, promotionArgs(p)...).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("promotion_id", p.ID).Msg("failed to create promotion")
		return fmt.Errorf("failed to create promotion: %w", err)
	}

	return nil
}

// Update overwrites a promotion. Returns nil when it does not exist.
func (r *promotionRepository) Update(ctx context.Context, p *model.Promotion) (*model.Promotion, error) {
	query := `
		UPDATE promotions
		SET title = $2, description = $3, type = $4, discount_value = $5, discount_type = $6,
			product_ids = $7, minimum_order_value = $8, start_date = $9, end_date = $10,
			image_url = $11, active = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + promotionColumns

	updated, err := scanPromotion(r.pool.QueryRow(ctx, query, promotionArgs(p)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promotion_id", p.ID).Msg("failed to update promotion")
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}

	return updated, nil
}

// GetByID retrieves a promotion by ID.
func (r *promotionRepository) GetByID(ctx context.Context, id string) (*model.Promotion, error) {
	p, err := scanPromotion(r.pool.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("promotion_id", id).Msg("promotion not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to query promotion")
		return nil, fmt.Errorf("failed to query promotion: %w", err)
	}
	return p, nil
}

// ListActive returns active promotions running at now.
func (r *promotionRepository) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	query := `SELECT ` + promotionColumns + `
		FROM promotions
		WHERE active = TRUE
		  AND (start_date IS NULL OR start_date <= $1)
		  AND (end_date IS NULL OR end_date >= $1)
		ORDER BY created_at DESC`

	return r.query(ctx, query, now)
}

// List returns every promotion newest first.
func (r *promotionRepository) List(ctx context.Context) ([]model.Promotion, error) {
	return r.query(ctx, `SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC`)
}

// Delete removes a promotion and reports whether it existed.
func (r *promotionRepository) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to delete promotion")
		return false, fmt.Errorf("failed to delete promotion: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *promotionRepository) query(ctx context.Context, query string, args ...any) ([]model.Promotion, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query promotions")
		return nil, fmt.Errorf("failed to query promotions: %w", err)
	}
	defer rows.Close()

	promotions := []model.Promotion{}
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan promotion row")
			return nil, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating promotion rows")
		return nil, fmt.Errorf("error iterating promotions: %w", err)
	}

	return promotions, nil
}

func promotionArgs(p *model.Promotion) []any {
	var discountType *string
	if p.DiscountType != nil {
		s := string(*p.DiscountType)
		discountType = &s
	}
	return []any{
		p.ID, p.Title, p.Description, string(p.Type), nullDecimal(p.DiscountValue), discountType,
		nonNilStrings(p.ProductIDs), nullDecimal(p.MinimumOrderValue), p.StartDate, p.EndDate,
		p.ImageURL, p.Active,
	}
}

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	var promoType string
	var discountType *string
	var discountValue, minimumOrderValue decimal.NullDecimal
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &promoType, &discountValue, &discountType, &p.ProductIDs,
		&minimumOrderValue, &p.StartDate, &p.EndDate, &p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Type = model.PromotionType(promoType)
	if discountType != nil {
		dt := model.DiscountType(*discountType)
		p.DiscountType = &dt
	}
	p.DiscountValue = decimalPtr(discountValue)
	p.MinimumOrderValue = decimalPtr(minimumOrderValue)
	return &p, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
