package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListPublished returns published products newest first, optionally
	// restricted to one supplier. An empty supplierID means no filter.
	ListPublished(ctx context.Context, supplierID string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID regardless of publication.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ListRelated returns other published products from the same supplier.
	ListRelated(ctx context.Context, productID, supplierID string, limit int) ([]model.Product, error)

	Create(ctx context.Context, product *model.Product) error

	// Update overwrites the editable fields. Returns nil when the product does not exist.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	SetPublished(ctx context.Context, id string, published bool) (bool, error)
	SetOutOfStock(ctx context.Context, id string, outOfStock bool) (bool, error)
	SetImages(ctx context.Context, id, imageURL string, images []string) (bool, error)
}

// SupplierRepository defines the interface for supplier data access operations.
type SupplierRepository interface {
	// GetIDBySlug resolves a supplier slug. Returns "" when no supplier matches.
	GetIDBySlug(ctx context.Context, slug string) (string, error)

	GetByID(ctx context.Context, id string) (*model.Supplier, error)
	GetBySlug(ctx context.Context, slug string) (*model.Supplier, error)
	List(ctx context.Context) ([]model.Supplier, error)
	Create(ctx context.Context, supplier *model.Supplier) error

	// Upsert inserts or updates a supplier keyed by slug and fills in its ID.
	Upsert(ctx context.Context, supplier *model.Supplier) error

	Update(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountProducts(ctx context.Context, id string) (int, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)

	// List returns orders newest first. An empty status lists every order.
	List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error)

	// UpdateStatus moves an order from one status to another. It returns nil
	// when the order does not exist or is no longer in the from status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, driverID, reason *string) (*model.Order, error)

	// StartTrip flags the trip as started for an order that is on the way.
	StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error)

	ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]model.Order, error)
	CountByDriver(ctx context.Context, driverID string) (int, error)
}

// WishlistRepository defines the interface for wishlist data access operations.
type WishlistRepository interface {
	Exists(ctx context.Context, userID, productID string) (bool, error)

	// Add inserts the pair. Returns model.ErrWishlistItemExists on a duplicate.
	Add(ctx context.Context, item *model.WishlistItem) error

	// Remove deletes the pair and reports how many rows were removed.
	Remove(ctx context.Context, userID, productID string) (int64, error)

	// ListByUser returns the user's saved products, most recently added first.
	ListByUser(ctx context.Context, userID string) ([]model.Product, error)
}

// PromotionRepository defines the interface for promotion data access operations.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *model.Promotion) error
	Update(ctx context.Context, promotion *model.Promotion) (*model.Promotion, error)
	GetByID(ctx context.Context, id string) (*model.Promotion, error)

	// ListActive returns active promotions whose date window contains now.
	ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error)

	List(ctx context.Context) ([]model.Promotion, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// SeoRepository defines the interface for SEO entry data access operations.
type SeoRepository interface {
	// Create inserts the entry. Returns model.ErrSeoEntryExists when the
	// entity already has one.
	Create(ctx context.Context, entry *model.SeoEntry) error

	GetByID(ctx context.Context, id string) (*model.SeoEntry, error)
	GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error)
	List(ctx context.Context, search string) ([]model.SeoEntry, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReportRepository runs the aggregate queries behind the dashboard reports.
// Canceled orders are excluded from every sales figure. Windows are [from, to).
type ReportRepository interface {
	DailySales(ctx context.Context, from, to time.Time) ([]model.DailySales, error)
	ProductSales(ctx context.Context, from, to time.Time) ([]model.ProductSales, error)
	SalesSummary(ctx context.Context, from, to time.Time) (model.SalesSummary, error)
	Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error)
}
