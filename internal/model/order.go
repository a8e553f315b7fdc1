package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusInWay     OrderStatus = "InWay"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInWay, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order may move from s to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next == OrderStatusInWay || next == OrderStatusCanceled
	case OrderStatusInWay:
		return next == OrderStatusDelivered || next == OrderStatusCanceled
	}
	return false
}

// Label returns the display label for the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusInWay:
		return "On the way"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCanceled:
		return "Canceled"
	}
	return "Unknown"
}

// Order represents a customer order.
type Order struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OrderNumber  string          `json:"orderNumber" db:"order_number"`
	CustomerID   string          `json:"customerId" db:"customer_id"`
	CustomerName string          `json:"customerName" db:"customer_name"`
	DriverID     *string         `json:"driverId,omitempty" db:"driver_id"`
	Status       OrderStatus     `json:"status" db:"status"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	Latitude     string          `json:"latitude" db:"latitude"`
	Longitude    string          `json:"longitude" db:"longitude"`
	CancelReason *string         `json:"cancelReason,omitempty" db:"cancel_reason"`
	IsTripStart  bool            `json:"isTripStart" db:"is_trip_start"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. UnitPrice is the product
// price captured when the order was placed.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID string          `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderRequest represents the request payload for creating an order.
type OrderRequest struct {
	CustomerID   string             `json:"customerId" validate:"required"`
	CustomerName string             `json:"customerName"`
	Latitude     string             `json:"latitude"`
	Longitude    string             `json:"longitude"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest represents a single item in an order request.
type OrderItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order    Order       `json:"order"`
	Items    []OrderItem `json:"items"`
	Products []Product   `json:"products"`
}

// OrderList is a page of orders.
type OrderList struct {
	Orders   []Order `json:"orders"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	HasMore  bool    `json:"hasMore"`
}

// ShipRequest assigns a driver and moves an order out for delivery.
type ShipRequest struct {
	DriverID string `json:"driverId" validate:"required"`
}

// CancelRequest cancels an order.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// TrackingInfo is the display model for an order's delivery state.
type TrackingInfo struct {
	OrderID      uuid.UUID       `json:"orderId"`
	OrderNumber  string          `json:"orderNumber"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	DriverID     string          `json:"driverId,omitempty"`
	Status       OrderStatus     `json:"status"`
	StatusLabel  string          `json:"statusLabel"`
	Shippable    bool            `json:"shippable"`
	Trackable    bool            `json:"trackable"`
	AwaitingTrip bool            `json:"awaitingTrip"`
	CancelReason string          `json:"cancelReason,omitempty"`
	HasLocation  bool            `json:"hasLocation"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	MapURL       string          `json:"mapUrl,omitempty"`
}
