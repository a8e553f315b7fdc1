package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func orderProducts() []model.Product {
	return []model.Product{
		{ID: "P001", Name: "Product 1", Price: decimal.RequireFromString("10.50"), Published: true, CreatedAt: time.Now()},
		{ID: "P002", Name: "Product 2", Price: decimal.RequireFromString("20.00"), Published: true, CreatedAt: time.Now()},
	}
}

func TestOrderService_CreateOrder_Success(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.OrderRequest{
		CustomerID:   "cust-1",
		CustomerName: "Dana",
		Latitude:     "31.95",
		Longitude:    "35.91",
		Items: []model.OrderItemRequest{
			{ProductID: "P001", Quantity: 2},
			{ProductID: "P002", Quantity: 1},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, logger)

	// Set up expectations
	mockProductRepo.On("GetByIDs", ctx, []string{"P001", "P002"}).Return(orderProducts(), nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	// Execute
	resp, err := service.CreateOrder(ctx, req)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEqual(t, uuid.Nil, resp.Order.ID)
	assert.Equal(t, model.OrderStatusPending, resp.Order.Status)
	assert.Equal(t, "41", resp.Order.Amount.String())
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`), resp.Order.OrderNumber)
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("10.50")))
	assert.Equal(t, resp.Order.ID, resp.Items[0].OrderID)
	assert.Len(t, resp.Products, 2)

	mockProductRepo.AssertExpectations(t)
	mockOrderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	mockTx.AssertNotCalled(t, "Rollback", mock.Anything)
}

func TestOrderService_CreateOrder_DuplicateProductLines(t *testing.T) {
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)
	service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

	mockProductRepo.On("GetByIDs", ctx, []string{"P001"}).Return(orderProducts()[:1], nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).Return(nil)
	mockTx.On("Commit", ctx).Return(nil)

	resp, err := service.CreateOrder(ctx, &model.OrderRequest{
		CustomerID: "cust-1",
		Items: []model.OrderItemRequest{
			{ProductID: "P001", Quantity: 1},
			{ProductID: "P001", Quantity: 3},
		},
	})

	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "42", resp.Order.Amount.String())
}

func TestOrderService_CreateOrder_ProductNotFound(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.OrderRequest{
		CustomerID: "cust-1",
		Items: []model.OrderItemRequest{
			{ProductID: "P999", Quantity: 1},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)

	service := NewOrderService(mockOrderRepo, mockProductRepo, logger)

	// Set up expectations
	mockProductRepo.On("GetByIDs", ctx, []string{"P999"}).Return([]model.Product{}, nil)

	// Execute
	resp, err := service.CreateOrder(ctx, req)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	assert.Contains(t, err.Error(), "P999")
	assert.Nil(t, resp)

	mockProductRepo.AssertExpectations(t)
	mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_CreateOrder_ProductUnavailable(t *testing.T) {
	tests := []struct {
		name    string
		product model.Product
	}{
		{name: "unpublished", product: model.Product{ID: "P001", Name: "Hidden", Price: decimal.NewFromInt(5)}},
		{name: "out of stock", product: model.Product{ID: "P001", Name: "Sold out", Price: decimal.NewFromInt(5), Published: true, OutOfStock: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mockOrderRepo := new(MockOrderRepository)
			mockProductRepo := new(MockProductRepository)
			service := NewOrderService(mockOrderRepo, mockProductRepo, zerolog.Nop())

			mockProductRepo.On("GetByIDs", ctx, []string{"P001"}).Return([]model.Product{tt.product}, nil)

			resp, err := service.CreateOrder(ctx, &model.OrderRequest{
				CustomerID: "cust-1",
				Items:      []model.OrderItemRequest{{ProductID: "P001", Quantity: 1}},
			})

			assert.ErrorIs(t, err, model.ErrProductUnavailable)
			assert.Nil(t, resp)
			mockOrderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
		})
	}
}

func TestOrderService_CreateOrder_ValidationErrors(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)

	service := NewOrderService(mockOrderRepo, mockProductRepo, logger)

	tests := []struct {
		name        string
		req         *model.OrderRequest
		expectedErr error
	}{
		{
			name:        "Nil request",
			req:         nil,
			expectedErr: nil, // Will error with "order request is nil"
		},
		{
			name: "Missing customer",
			req: &model.OrderRequest{
				Items: []model.OrderItemRequest{{ProductID: "P001", Quantity: 1}},
			},
			expectedErr: model.NewDomainError(model.ErrCodeMissingField, ""),
		},
		{
			name: "Empty items",
			req: &model.OrderRequest{
				CustomerID: "cust-1",
				Items:      []model.OrderItemRequest{},
			},
			expectedErr: model.NewDomainError(model.ErrCodeValidation, ""),
		},
		{
			name: "Empty product ID",
			req: &model.OrderRequest{
				CustomerID: "cust-1",
				Items: []model.OrderItemRequest{
					{ProductID: "", Quantity: 1},
				},
			},
			expectedErr: model.NewDomainError(model.ErrCodeMissingField, ""),
		},
		{
			name: "Zero quantity",
			req: &model.OrderRequest{
				CustomerID: "cust-1",
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: 0},
				},
			},
			expectedErr: model.ErrInvalidQuantity,
		},
		{
			name: "Negative quantity",
			req: &model.OrderRequest{
				CustomerID: "cust-1",
				Items: []model.OrderItemRequest{
					{ProductID: "P001", Quantity: -5},
				},
			},
			expectedErr: model.ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := service.CreateOrder(ctx, tt.req)

			require.Error(t, err)
			assert.Nil(t, resp)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}

	mockProductRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_TransactionRollback(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	req := &model.OrderRequest{
		CustomerID: "cust-1",
		Items: []model.OrderItemRequest{
			{ProductID: "P001", Quantity: 1},
		},
	}

	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockTx := new(MockTx)

	service := NewOrderService(mockOrderRepo, mockProductRepo, logger)

	// Set up expectations
	mockProductRepo.On("GetByIDs", ctx, []string{"P001"}).Return(orderProducts()[:1], nil)
	mockOrderRepo.On("BeginTx", ctx).Return(mockTx, nil)
	mockOrderRepo.On("CreateOrder", ctx, mockTx, mock.AnythingOfType("*model.Order")).Return(nil)
	mockOrderRepo.On("CreateOrderItems", ctx, mockTx, mock.AnythingOfType("[]model.OrderItem")).
		Return(errors.New("database error"))
	mockTx.On("Rollback", ctx).Return(nil)

	// Execute
	resp, err := service.CreateOrder(ctx, req)

	// Assert
	require.Error(t, err)
	assert.Nil(t, resp)

	mockOrderRepo.AssertExpectations(t)
	mockTx.AssertExpectations(t)
	mockTx.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestOrderService_GetByID(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	orderID := uuid.New()
	order := &model.Order{
		ID:        orderID,
		Status:    model.OrderStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	items := []model.OrderItem{
		{ID: uuid.New(), OrderID: orderID, ProductID: "P001", Quantity: 2},
		{ID: uuid.New(), OrderID: orderID, ProductID: "P002", Quantity: 1},
	}

	tests := []struct {
		name         string
		mockOrder    *model.Order
		mockItems    []model.OrderItem
		mockError    error
		mockProducts []model.Product
		expectNil    bool
		expectError  bool
	}{
		{
			name:         "Order found",
			mockOrder:    order,
			mockItems:    items,
			mockProducts: orderProducts(),
		},
		{
			name:      "Order not found",
			expectNil: true,
		},
		{
			name:        "Database error",
			mockError:   errors.New("database error"),
			expectNil:   true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrderRepo := new(MockOrderRepository)
			mockProductRepo := new(MockProductRepository)

			service := NewOrderService(mockOrderRepo, mockProductRepo, logger)

			if tt.mockOrder != nil {
				mockOrderRepo.On("GetByID", ctx, orderID).Return(tt.mockOrder, tt.mockItems, tt.mockError)
				mockProductRepo.On("GetByIDs", ctx, []string{"P001", "P002"}).Return(tt.mockProducts, nil)
			} else {
				mockOrderRepo.On("GetByID", ctx, orderID).Return(nil, nil, tt.mockError)
			}

			resp, err := service.GetByID(ctx, orderID)

			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			if tt.expectNil {
				assert.Nil(t, resp)
			} else {
				require.NotNil(t, resp)
				assert.Equal(t, orderID, resp.Order.ID)
				assert.Len(t, resp.Items, 2)
				assert.Len(t, resp.Products, 2)
			}

			mockOrderRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("has more", func(t *testing.T) {
		mockOrderRepo := new(MockOrderRepository)
		service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

		orders := make([]model.Order, 3)
		mockOrderRepo.On("List", ctx, model.OrderStatusPending, 3, 2).Return(orders, nil)

		list, err := service.List(ctx, model.OrderStatusPending, 2, 2)

		require.NoError(t, err)
		assert.Len(t, list.Orders, 2)
		assert.True(t, list.HasMore)
		assert.Equal(t, 2, list.Page)
	})

	t.Run("defaults", func(t *testing.T) {
		mockOrderRepo := new(MockOrderRepository)
		service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

		mockOrderRepo.On("List", ctx, model.OrderStatus(""), 21, 0).Return(nil, nil)

		list, err := service.List(ctx, "", 0, 0)

		require.NoError(t, err)
		assert.NotNil(t, list.Orders)
		assert.False(t, list.HasMore)
		assert.Equal(t, 20, list.PageSize)
	})

	t.Run("huge page keeps a non-negative offset", func(t *testing.T) {
		mockOrderRepo := new(MockOrderRepository)
		service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

		mockOrderRepo.On("List", ctx, model.OrderStatus(""), 101, (maxPage-1)*100).Return([]model.Order{}, nil)

		list, err := service.List(ctx, "", math.MaxInt, 100)

		require.NoError(t, err)
		assert.Equal(t, maxPage, list.Page)
		mockOrderRepo.AssertExpectations(t)
	})

	t.Run("unknown status", func(t *testing.T) {
		service := NewOrderService(new(MockOrderRepository), new(MockProductRepository), zerolog.Nop())

		_, err := service.List(ctx, "Lost", 1, 10)

		var domainErr *model.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, model.ErrCodeValidation, domainErr.Code)
	})
}

func TestOrderService_Transitions(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	driver := "drv-7"
	reason := "customer asked"

	tests := []struct {
		name    string
		current model.OrderStatus
		call    func(OrderService) (*model.Order, error)
		to      model.OrderStatus
		driver  *string
		reason  *string
		wantErr error
	}{
		{
			name:    "ship pending",
			current: model.OrderStatusPending,
			call:    func(s OrderService) (*model.Order, error) { return s.Ship(ctx, id, driver) },
			to:      model.OrderStatusInWay,
			driver:  &driver,
		},
		{
			name:    "deliver in way",
			current: model.OrderStatusInWay,
			call:    func(s OrderService) (*model.Order, error) { return s.Deliver(ctx, id) },
			to:      model.OrderStatusDelivered,
		},
		{
			name:    "cancel pending",
			current: model.OrderStatusPending,
			call:    func(s OrderService) (*model.Order, error) { return s.Cancel(ctx, id, reason) },
			to:      model.OrderStatusCanceled,
			reason:  &reason,
		},
		{
			name:    "cancel in way",
			current: model.OrderStatusInWay,
			call:    func(s OrderService) (*model.Order, error) { return s.Cancel(ctx, id, reason) },
			to:      model.OrderStatusCanceled,
			reason:  &reason,
		},
		{
			name:    "deliver pending rejected",
			current: model.OrderStatusPending,
			call:    func(s OrderService) (*model.Order, error) { return s.Deliver(ctx, id) },
			wantErr: model.ErrInvalidStatusTransition,
		},
		{
			name:    "ship delivered rejected",
			current: model.OrderStatusDelivered,
			call:    func(s OrderService) (*model.Order, error) { return s.Ship(ctx, id, driver) },
			wantErr: model.ErrInvalidStatusTransition,
		},
		{
			name:    "cancel canceled rejected",
			current: model.OrderStatusCanceled,
			call:    func(s OrderService) (*model.Order, error) { return s.Cancel(ctx, id, reason) },
			wantErr: model.ErrInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrderRepo := new(MockOrderRepository)
			service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

			mockOrderRepo.On("GetByID", ctx, id).Return(&model.Order{ID: id, Status: tt.current}, []model.OrderItem{}, nil)
			if tt.wantErr == nil {
				mockOrderRepo.On("UpdateStatus", ctx, id, tt.current, tt.to, tt.driver, tt.reason).
					Return(&model.Order{ID: id, Status: tt.to}, nil)
			}

			order, err := tt.call(service)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				mockOrderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, order.Status)
			mockOrderRepo.AssertExpectations(t)
		})
	}
}

func TestOrderService_Transitions_MissingInput(t *testing.T) {
	ctx := context.Background()
	mockOrderRepo := new(MockOrderRepository)
	service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

	_, err := service.Ship(ctx, uuid.New(), "  ")
	assert.ErrorIs(t, err, model.NewDomainError(model.ErrCodeMissingField, ""))

	_, err = service.Cancel(ctx, uuid.New(), "")
	assert.ErrorIs(t, err, model.NewDomainError(model.ErrCodeMissingField, ""))

	mockOrderRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestOrderService_Transitions_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	mockOrderRepo := new(MockOrderRepository)
	service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

	mockOrderRepo.On("GetByID", ctx, id).Return(nil, nil, nil)

	_, err := service.Deliver(ctx, id)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_Transitions_ConcurrentChange(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	mockOrderRepo := new(MockOrderRepository)
	service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

	mockOrderRepo.On("GetByID", ctx, id).Return(&model.Order{ID: id, Status: model.OrderStatusInWay}, []model.OrderItem{}, nil)
	mockOrderRepo.On("UpdateStatus", ctx, id, model.OrderStatusInWay, model.OrderStatusDelivered, (*string)(nil), (*string)(nil)).
		Return(nil, nil)

	_, err := service.Deliver(ctx, id)

	assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
}

func TestOrderService_StartTrip(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("in way", func(t *testing.T) {
		mockOrderRepo := new(MockOrderRepository)
		service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

		mockOrderRepo.On("GetByID", ctx, id).Return(&model.Order{ID: id, Status: model.OrderStatusInWay}, []model.OrderItem{}, nil)
		mockOrderRepo.On("StartTrip", ctx, id).Return(&model.Order{ID: id, Status: model.OrderStatusInWay, IsTripStart: true}, nil)

		order, err := service.StartTrip(ctx, id)

		require.NoError(t, err)
		assert.True(t, order.IsTripStart)
	})

	t.Run("pending rejected", func(t *testing.T) {
		mockOrderRepo := new(MockOrderRepository)
		service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

		mockOrderRepo.On("GetByID", ctx, id).Return(&model.Order{ID: id, Status: model.OrderStatusPending}, []model.OrderItem{}, nil)

		_, err := service.StartTrip(ctx, id)

		assert.ErrorIs(t, err, model.ErrInvalidStatusTransition)
		mockOrderRepo.AssertNotCalled(t, "StartTrip", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Track(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	driver := "drv-1"
	emptyReason := " "

	tests := []struct {
		name   string
		order  model.Order
		assert func(t *testing.T, info *model.TrackingInfo)
	}{
		{
			name:  "pending is shippable",
			order: model.Order{Status: model.OrderStatusPending, Latitude: "31.9539", Longitude: "35.9106"},
			assert: func(t *testing.T, info *model.TrackingInfo) {
				assert.True(t, info.Shippable)
				assert.False(t, info.Trackable)
				assert.Equal(t, "Pending", info.StatusLabel)
				assert.True(t, info.HasLocation)
				assert.InDelta(t, 31.9539, info.Latitude, 1e-9)
				assert.InDelta(t, 35.9106, info.Longitude, 1e-9)
				assert.Equal(t, "https://maps.google.com/maps?q=31.9539,35.9106&z=16&output=embed", info.MapURL)
			},
		},
		{
			name:  "in way awaiting trip",
			order: model.Order{Status: model.OrderStatusInWay, DriverID: &driver},
			assert: func(t *testing.T, info *model.TrackingInfo) {
				assert.True(t, info.AwaitingTrip)
				assert.False(t, info.Trackable)
				assert.Equal(t, "On the way", info.StatusLabel)
				assert.Equal(t, driver, info.DriverID)
				assert.False(t, info.HasLocation)
			},
		},
		{
			name:  "in way trip started",
			order: model.Order{Status: model.OrderStatusInWay, IsTripStart: true, Latitude: "0", Longitude: "0"},
			assert: func(t *testing.T, info *model.TrackingInfo) {
				assert.True(t, info.Trackable)
				assert.False(t, info.AwaitingTrip)
				assert.False(t, info.HasLocation)
				assert.Empty(t, info.MapURL)
			},
		},
		{
			name:  "canceled without reason",
			order: model.Order{Status: model.OrderStatusCanceled, CancelReason: &emptyReason, Latitude: "abc", Longitude: "1"},
			assert: func(t *testing.T, info *model.TrackingInfo) {
				assert.Equal(t, "no reason given", info.CancelReason)
				assert.False(t, info.HasLocation)
			},
		},
		{
			name:  "non-finite coordinates are no location",
			order: model.Order{Status: model.OrderStatusInWay, IsTripStart: true, Latitude: "NaN", Longitude: "NaN"},
			assert: func(t *testing.T, info *model.TrackingInfo) {
				assert.False(t, info.HasLocation)
				assert.Zero(t, info.Latitude)
				assert.Empty(t, info.MapURL)

				_, err := json.Marshal(info)
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockOrderRepo := new(MockOrderRepository)
			service := NewOrderService(mockOrderRepo, new(MockProductRepository), zerolog.Nop())

			order := tt.order
			order.ID = id
			mockOrderRepo.On("GetByID", ctx, id).Return(&order, []model.OrderItem{}, nil)

			info, err := service.Track(ctx, id)

			require.NoError(t, err)
			assert.Equal(t, id, info.OrderID)
			tt.assert(t, info)
		})
	}
}

func TestParseLocation(t *testing.T) {
	_, ok := parseLocation("91", "10")
	assert.False(t, ok)

	for _, bad := range [][2]string{{"NaN", "NaN"}, {"10", "nan"}, {"Inf", "10"}, {"10", "-Infinity"}} {
		_, ok = parseLocation(bad[0], bad[1])
		assert.False(t, ok, "%s,%s", bad[0], bad[1])
	}

	p, ok := parseLocation(" -33.5 ", "151.25")
	require.True(t, ok)
	assert.Equal(t, -33.5, p.Lat())
	assert.Equal(t, 151.25, p.Lon())
}
