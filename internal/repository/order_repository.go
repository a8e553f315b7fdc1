package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const orderColumns = `id, order_number, customer_id, customer_name, driver_id, status, amount,
	latitude, longitude, cancel_reason, is_trip_start, created_at, updated_at`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, order_number, customer_id, customer_name, driver_id, status, amount,
			latitude, longitude, cancel_reason, is_trip_start, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.CustomerID, order.CustomerName, order.DriverID,
		string(order.Status), order.Amount, order.Latitude, order.Longitude, order.CancelReason,
		order.IsTripStart, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", id.String()).
			Msg("failed to query order items")
		return nil, nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return order, items, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *orderRepository) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	args := []any{limit, offset}
	if status != "" {
		query += ` WHERE status = $3`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("status", string(status)).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	return r.collect(rows)
}

// UpdateStatus applies a status transition guarded by the current status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, driverID, reason *string) (*model.Order, error) {
	query := `
		UPDATE orders
		SET status = $3,
			driver_id = COALESCE($4, driver_id),
			cancel_reason = COALESCE($5, cancel_reason),
			is_trip_start = CASE WHEN $3 = 'InWay' THEN FALSE ELSE is_trip_start END,
			updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, string(from), string(to), driverID, reason))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().
				Str("order_id", id.String()).
				Str("from", string(from)).
				Str("to", string(to)).
				Msg("order not in expected status")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

// StartTrip marks the delivery trip as started.
func (r *orderRepository) StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `
		UPDATE orders
		SET is_trip_start = TRUE, updated_at = NOW()
		WHERE id = $1 AND status = 'InWay'
		RETURNING ` + orderColumns

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to start trip")
		return nil, fmt.Errorf("failed to start trip: %w", err)
	}

	return order, nil
}

// ListByDriver returns a driver's orders newest first.
func (r *orderRepository) ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE driver_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, driverID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Str("driver_id", driverID).Msg("failed to query driver orders")
		return nil, fmt.Errorf("failed to query driver orders: %w", err)
	}

	return r.collect(rows)
}

// CountByDriver counts a driver's orders.
func (r *orderRepository) CountByDriver(ctx context.Context, driverID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE driver_id = $1`, driverID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("driver_id", driverID).Msg("failed to count driver orders")
		return 0, fmt.Errorf("failed to count driver orders: %w", err)
	}
	return count, nil
}

func (r *orderRepository) collect(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var status string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.DriverID, &status, &o.Amount,
		&o.Latitude, &o.Longitude, &o.CancelReason, &o.IsTripStart, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Status = model.OrderStatus(status)
	return &o, nil
}
