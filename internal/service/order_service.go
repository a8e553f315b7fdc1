package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
	noCancelReason       = "no reason given"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
	now         func() time.Time
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "order").Logger(),
		now:         time.Now,
	}
}

// CreateOrder places a new order. Each item records the product price at
// the time of purchase.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	// Validate request
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	productIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	now := s.now()
	order := &model.Order{
		ID:           uuid.New(),
		OrderNumber:  orderNumber(now),
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Status:       model.OrderStatusPending,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	amount := decimal.Zero
	orderItems := make([]model.OrderItem, len(req.Items))
	for i, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product not found")
			return nil, model.NewDomainError(model.ErrCodeProductNotFound,
				fmt.Sprintf("product not found: %s", item.ProductID))
		}
		if !product.Published || product.OutOfStock {
			s.logger.Warn().Str("product_id", item.ProductID).Msg("product unavailable")
			return nil, model.NewDomainError(model.ErrCodeProductUnavailable,
				fmt.Sprintf("product is not available: %s", product.Name))
		}

		orderItems[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		}
		amount = amount.Add(orderItems[i].Subtotal())
	}
	order.Amount = amount

	// Start transaction
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(orderItems)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// Commit transaction
	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("amount", order.Amount.StringFixed(2)).
		Int("item_count", len(orderItems)).
		Msg("order created successfully")

	return &model.OrderResponse{
		Order:    *order,
		Items:    orderItems,
		Products: normalizeProducts(products, model.FallbackImage),
	}, nil
}

// GetByID retrieves an order by its ID with all items and product details.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	order, items, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, nil
	}

	// Extract product IDs
	productIDs := make([]string, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
	}

	// Retrieve product details
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to retrieve product details")
		return nil, fmt.Errorf("failed to retrieve product details: %w", err)
	}

	return &model.OrderResponse{
		Order:    *order,
		Items:    items,
		Products: normalizeProducts(products, model.FallbackImage),
	}, nil
}

// List returns a page of orders, optionally filtered by status.
func (s *orderService) List(ctx context.Context, status model.OrderStatus, page, pageSize int) (*model.OrderList, error) {
	if status != "" && !status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("unknown order status: %s", status))
	}
	page = clampPage(page)
	if pageSize <= 0 {
		pageSize = defaultOrderPageSize
	}
	if pageSize > maxOrderPageSize {
		pageSize = maxOrderPageSize
	}

	orders, err := s.orderRepo.List(ctx, status, pageSize+1, (page-1)*pageSize)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(status)).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	hasMore := len(orders) > pageSize
	if hasMore {
		orders = orders[:pageSize]
	}
	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderList{
		Orders:   orders,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

// Ship assigns a driver and sends a pending order on its way.
func (s *orderService) Ship(ctx context.Context, id uuid.UUID, driverID string) (*model.Order, error) {
	driverID = strings.TrimSpace(driverID)
	if driverID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "driver id is required")
	}
	return s.transition(ctx, id, model.OrderStatusInWay, &driverID, nil)
}

// StartTrip marks the driver as departed. Only valid while the order is on the way.
func (s *orderService) StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != model.OrderStatusInWay {
		return nil, invalidTransition(current.Status, "trip start")
	}

	order, err := s.orderRepo.StartTrip(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to start trip")
		return nil, fmt.Errorf("failed to start trip: %w", err)
	}
	if order == nil {
		return nil, invalidTransition(current.Status, "trip start")
	}

	s.logger.Info().Str("order_id", id.String()).Msg("trip started")
	return order, nil
}

// Deliver completes an order that is on the way.
func (s *orderService) Deliver(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.transition(ctx, id, model.OrderStatusDelivered, nil, nil)
}

// Cancel cancels a pending or in-flight order.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "cancel reason is required")
	}
	return s.transition(ctx, id, model.OrderStatusCanceled, nil, &reason)
}

func (s *orderService) transition(ctx context.Context, id uuid.UUID, to model.OrderStatus, driverID, reason *string) (*model.Order, error) {
	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(current.Status)).
			Str("to", string(to)).
			Msg("rejected status transition")
		return nil, invalidTransition(current.Status, string(to))
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, current.Status, to, driverID, reason)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	// The order moved on between the read and the guarded update.
	if order == nil {
		return nil, invalidTransition(current.Status, string(to))
	}

	s.logger.Info().
		Str("order_id", id.String()).
		Str("from", string(current.Status)).
		Str("to", string(to)).
		Msg("order status updated")

	return order, nil
}

func (s *orderService) load(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, _, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

// Track builds the delivery view of an order.
func (s *orderService) Track(ctx context.Context, id uuid.UUID) (*model.TrackingInfo, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &model.TrackingInfo{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		Amount:       order.Amount,
		Status:       order.Status,
		StatusLabel:  order.Status.Label(),
		Shippable:    order.Status == model.OrderStatusPending,
		Trackable:    order.Status == model.OrderStatusInWay && order.IsTripStart,
		AwaitingTrip: order.Status == model.OrderStatusInWay && !order.IsTripStart,
	}
	if order.DriverID != nil {
		info.DriverID = *order.DriverID
	}
	if order.Status == model.OrderStatusCanceled {
		info.CancelReason = noCancelReason
		if order.CancelReason != nil && strings.TrimSpace(*order.CancelReason) != "" {
			info.CancelReason = *order.CancelReason
		}
	}

	if point, ok := parseLocation(order.Latitude, order.Longitude); ok {
		info.HasLocation = true
		info.Latitude = point.Lat()
		info.Longitude = point.Lon()
		info.MapURL = mapURL(point)
	}

	return info, nil
}

// parseLocation converts stored coordinates into a point. The origin and
// non-finite values are treated as "no location".
func parseLocation(lat, lon string) (orb.Point, bool) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return orb.Point{}, false
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return orb.Point{}, false
	}
	if !finite(latitude) || !finite(longitude) {
		return orb.Point{}, false
	}
	if latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
		return orb.Point{}, false
	}

	point := orb.Point{longitude, latitude}
	if point.Equal(orb.Point{}) {
		return orb.Point{}, false
	}
	return point, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func mapURL(p orb.Point) string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%s,%s&z=16&output=embed",
		strconv.FormatFloat(p.Lat(), 'f', -1, 64),
		strconv.FormatFloat(p.Lon(), 'f', -1, 64))
}

// orderNumber returns an identifier of the form ORD-20260102-1A2B3C.
func orderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

func invalidTransition(from model.OrderStatus, to string) error {
	return model.NewDomainError(model.ErrCodeInvalidStatusTransition,
		fmt.Sprintf("cannot move order from %s to %s", from, to))
}

func normalizeProducts(products []model.Product, fallback string) []model.Product {
	out := make([]model.Product, len(products))
	for i := range products {
		out[i] = products[i]
		out[i].Normalize(fallback)
	}
	return out
}

// validateOrderRequest validates the order request.
func (s *orderService) validateOrderRequest(req *model.OrderRequest) error {
	if req == nil {
		return fmt.Errorf("order request is nil")
	}

	if strings.TrimSpace(req.CustomerID) == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "customer id is required")
	}

	if len(req.Items) == 0 {
		return model.NewDomainError(model.ErrCodeValidation, "order must contain at least one item")
	}

	// Validate each item
	for i, item := range req.Items {
		if item.ProductID == "" {
			return model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("item %d: product ID is required", i))
		}

		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	return nil
}
