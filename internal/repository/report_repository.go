package repository

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// reportRepository implements the ReportRepository interface using PostgreSQL.
type reportRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReportRepository creates a new PostgreSQL-backed report repository.
func NewReportRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReportRepository {
	return &reportRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "report").Logger(),
	}
}

// DailySales sums order amounts per calendar day.
func (r *reportRepository) DailySales(ctx context.Context, from, to time.Time) ([]model.DailySales, error) {
	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day, COALESCE(SUM(amount), 0)
		FROM orders
		WHERE status <> 'canceled' AND created_at >= $1 AND created_at < $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query daily sales")
		return nil, fmt.Errorf("failed to query daily sales: %w", err)
	}
	defer rows.Close()

	sales := []model.DailySales{}
	for rows.Next() {
		var d model.DailySales
		if err := rows.Scan(&d.Day, &d.Value); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan daily sales row")
			return nil, fmt.Errorf("failed to scan daily sales: %w", err)
		}
		sales = append(sales, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily sales: %w", err)
	}

	return sales, nil
}

// ProductSales aggregates sold quantity and revenue per product, best sellers first.
func (r *reportRepository) ProductSales(ctx context.Context, from, to time.Time) ([]model.ProductSales, error) {
	query := `
		SELECT p.id, p.name, p.image_url, s.name, p.price,
			SUM(oi.quantity)::int AS qty,
			SUM(oi.unit_price * oi.quantity) AS revenue,
			COUNT(DISTINCT o.id)::int,
			p.out_of_stock, p.published
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN products p ON p.id = oi.product_id
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE o.status <> 'canceled' AND o.created_at >= $1 AND o.created_at < $2
		GROUP BY p.id, s.name
		ORDER BY qty DESC, revenue DESC, p.id
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query product sales")
		return nil, fmt.Errorf("failed to query product sales: %w", err)
	}
	defer rows.Close()

	sales := []model.ProductSales{}
	for rows.Next() {
		var p model.ProductSales
		err := rows.Scan(&p.ProductID, &p.Name, &p.ImageURL, &p.SupplierName, &p.Price,
			&p.Quantity, &p.Revenue, &p.OrderCount, &p.OutOfStock, &p.Published)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product sales row")
			return nil, fmt.Errorf("failed to scan product sales: %w", err)
		}
		sales = append(sales, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product sales: %w", err)
	}

	return sales, nil
}

// SalesSummary returns order totals for the window.
func (r *reportRepository) SalesSummary(ctx context.Context, from, to time.Time) (model.SalesSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(o.amount), 0),
			COUNT(*)::int,
			COALESCE((
				SELECT SUM(oi.quantity)
				FROM order_items oi
				JOIN orders io ON io.id = oi.order_id
				WHERE io.status <> 'canceled' AND io.created_at >= $1 AND io.created_at < $2
			), 0)::int
		FROM orders o
		WHERE o.status <> 'canceled' AND o.created_at >= $1 AND o.created_at < $2
	`

	var summary model.SalesSummary
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&summary.TotalSales, &summary.OrderCount, &summary.ItemsSold)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query sales summary")
		return model.SalesSummary{}, fmt.Errorf("failed to query sales summary: %w", err)
	}

	return summary, nil
}

// Inventory lists products with their stock state.
func (r *reportRepository) Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error) {
	query := `
		SELECT p.id, p.name, p.price, p.out_of_stock, s.name, p.created_at, p.updated_at
		FROM products p
		JOIN suppliers s ON s.id = p.supplier_id
		WHERE ($1 = FALSE OR p.out_of_stock = TRUE)
		ORDER BY p.name, p.id
	`

	rows, err := r.pool.Query(ctx, query, outOfStockOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory")
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	defer rows.Close()

	inventory := []model.InventoryRow{}
	for rows.Next() {
		var row model.InventoryRow
		err := rows.Scan(&row.ID, &row.Name, &row.Price, &row.OutOfStock, &row.SupplierName, &row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan inventory row")
			return nil, fmt.Errorf("failed to scan inventory: %w", err)
		}
		inventory = append(inventory, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return inventory, nil
}
