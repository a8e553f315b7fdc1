package service

import (
	"context"
	"time"

	"storefront/internal/media"
	"storefront/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines product browsing and catalog management.
type CatalogService interface {
	// FetchPage returns one page of published products, newest first,
	// optionally filtered by supplier slug. Failures yield an empty page.
	FetchPage(ctx context.Context, slug string, page, pageSize int) model.ProductPage

	// GetByID retrieves a published product. Returns nil when not found.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Related returns other products from the same supplier.
	Related(ctx context.Context, id string, limit int) ([]model.Product, error)

	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error)
	SetPublished(ctx context.Context, id string, published bool) error
	SetOutOfStock(ctx context.Context, id string, outOfStock bool) error

	// AttachImage uploads an image and makes it the product's primary image.
	AttachImage(ctx context.Context, id string, upload media.Upload) (*model.Product, error)
}

// SupplierService defines supplier management.
type SupplierService interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Get(ctx context.Context, id string) (*model.Supplier, error)
	GetBySlug(ctx context.Context, slug string) (*model.Supplier, error)
	Create(ctx context.Context, req *model.SupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, id string, req *model.SupplierRequest) (*model.Supplier, error)
	Delete(ctx context.Context, id string) error
	UploadLogo(ctx context.Context, id string, upload media.Upload) (*model.Supplier, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder places an order, capturing current product prices.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error)

	// GetByID retrieves an order by its ID with all items and product details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)

	List(ctx context.Context, status model.OrderStatus, page, pageSize int) (*model.OrderList, error)

	Ship(ctx context.Context, id uuid.UUID, driverID string) (*model.Order, error)
	StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Deliver(ctx context.Context, id uuid.UUID) (*model.Order, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error)

	// Track builds the delivery display model for an order.
	Track(ctx context.Context, id uuid.UUID) (*model.TrackingInfo, error)
}

// WishlistService defines the signed-in user's wishlist. Expected outcomes
// such as duplicates are reported through the result, not as errors.
type WishlistService interface {
	Add(ctx context.Context, userID, productID string) model.ActionResult
	Remove(ctx context.Context, userID, productID string) model.ActionResult
	Contains(ctx context.Context, userID, productID string) bool
	List(ctx context.Context, userID string) ([]model.Product, error)
}

// PromotionService defines promotion management.
type PromotionService interface {
	// Create validates the raw input and stores a promotion. Validation
	// failures are returned as *model.ValidationError.
	Create(ctx context.Context, input model.PromotionInput, image *media.Upload) (*model.Promotion, error)
	Update(ctx context.Context, id string, input model.PromotionInput, image *media.Upload) (*model.Promotion, error)
	Get(ctx context.Context, id string) (*model.Promotion, error)
	List(ctx context.Context) ([]model.Promotion, error)
	ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error)
	Delete(ctx context.Context, id string) error
}

// SeoService manages the search metadata attached to storefront entities.
type SeoService interface {
	// Create stores a new entry. Each entity has at most one.
	Create(ctx context.Context, req *model.SeoRequest) (*model.SeoEntry, error)
	Get(ctx context.Context, id string) (*model.SeoEntry, error)
	GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error)
	List(ctx context.Context, search string) ([]model.SeoEntry, error)
	Delete(ctx context.Context, id string) error
}

// ReportService builds the dashboard reports. Zero times select the default
// window of the last 30 days.
type ReportService interface {
	Sales(ctx context.Context, from, to time.Time, showAll bool) (*model.SalesReport, error)
	ProductPerformance(ctx context.Context, from, to time.Time) (*model.ProductPerformanceReport, error)
	Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error)
	DriverOrders(ctx context.Context, driverID string, page int) (*model.DriverOrdersReport, error)
}
