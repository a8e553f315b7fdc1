package service

import (
	"context"
	"time"

	"storefront/internal/media"
	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) ListPublished(ctx context.Context, supplierID string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, supplierID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListRelated(ctx context.Context, productID, supplierID string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, productID, supplierID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) SetPublished(ctx context.Context, id string, published bool) (bool, error) {
	args := m.Called(ctx, id, published)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) SetOutOfStock(ctx context.Context, id string, outOfStock bool) (bool, error) {
	args := m.Called(ctx, id, outOfStock)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) SetImages(ctx context.Context, id, imageURL string, images []string) (bool, error) {
	args := m.Called(ctx, id, imageURL, images)
	return args.Bool(0), args.Error(1)
}

// MockSupplierRepository is a mock implementation of SupplierRepository.
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) GetIDBySlug(ctx context.Context, slug string) (string, error) {
	args := m.Called(ctx, slug)
	return args.String(0), args.Error(1)
}

func (m *MockSupplierRepository) GetByID(ctx context.Context, id string) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) GetBySlug(ctx context.Context, slug string) (*model.Supplier, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) List(ctx context.Context) ([]model.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Create(ctx context.Context, supplier *model.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Upsert(ctx context.Context, supplier *model.Supplier) error {
	args := m.Called(ctx, supplier)
	return args.Error(0)
}

func (m *MockSupplierRepository) Update(ctx context.Context, supplier *model.Supplier) (*model.Supplier, error) {
	args := m.Called(ctx, supplier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupplierRepository) CountProducts(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.OrderItem), args.Error(2)
}

func (m *MockOrderRepository) List(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, driverID, reason *string) (*model.Order, error) {
	args := m.Called(ctx, id, from, to, driverID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByDriver(ctx context.Context, driverID string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, driverID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByDriver(ctx context.Context, driverID string) (int, error) {
	args := m.Called(ctx, driverID)
	return args.Int(0), args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockWishlistRepository is a mock implementation of WishlistRepository.
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, userID, productID string) (int64, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWishlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockPromotionRepository is a mock implementation of PromotionRepository.
type MockPromotionRepository struct {
	mock.Mock
}

func (m *MockPromotionRepository) Create(ctx context.Context, promotion *model.Promotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

func (m *MockPromotionRepository) Update(ctx context.Context, promotion *model.Promotion) (*model.Promotion, error) {
	args := m.Called(ctx, promotion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) GetByID(ctx context.Context, id string) (*model.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) List(ctx context.Context) ([]model.Promotion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *MockPromotionRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockSeoRepository is a mock implementation of SeoRepository.
type MockSeoRepository struct {
	mock.Mock
}

func (m *MockSeoRepository) Create(ctx context.Context, entry *model.SeoEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSeoRepository) GetByID(ctx context.Context, id string) (*model.SeoEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeoEntry), args.Error(1)
}

func (m *MockSeoRepository) GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeoEntry), args.Error(1)
}

func (m *MockSeoRepository) List(ctx context.Context, search string) ([]model.SeoEntry, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeoEntry), args.Error(1)
}

func (m *MockSeoRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockReportRepository is a mock implementation of ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) DailySales(ctx context.Context, from, to time.Time) ([]model.DailySales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailySales), args.Error(1)
}

func (m *MockReportRepository) ProductSales(ctx context.Context, from, to time.Time) ([]model.ProductSales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductSales), args.Error(1)
}

func (m *MockReportRepository) SalesSummary(ctx context.Context, from, to time.Time) (model.SalesSummary, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(model.SalesSummary), args.Error(1)
}

func (m *MockReportRepository) Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error) {
	args := m.Called(ctx, outOfStockOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryRow), args.Error(1)
}

// MockFeedCache is a mock implementation of FeedCache.
type MockFeedCache struct {
	mock.Mock
}

func (m *MockFeedCache) Get(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, bool) {
	args := m.Called(ctx, slug, page, pageSize)
	return args.Get(0).(model.ProductPage), args.Bool(1)
}

func (m *MockFeedCache) Set(ctx context.Context, slug string, page, pageSize int, result model.ProductPage) error {
	args := m.Called(ctx, slug, page, pageSize, result)
	return args.Error(0)
}

func (m *MockFeedCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// stubUploader returns a fixed URL or error.
type stubUploader struct {
	url     string
	err     error
	uploads []media.Upload
}

func (u *stubUploader) Upload(ctx context.Context, upload media.Upload) (string, error) {
	u.uploads = append(u.uploads, upload)
	return u.url, u.err
}
