package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"storefront/internal/media"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) FetchPage(ctx context.Context, slug string, page, pageSize int) model.ProductPage {
	args := m.Called(ctx, slug, page, pageSize)
	return args.Get(0).(model.ProductPage)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Related(ctx context.Context, id string, limit int) ([]model.Product, error) {
	args := m.Called(ctx, id, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) SetPublished(ctx context.Context, id string, published bool) error {
	args := m.Called(ctx, id, published)
	return args.Error(0)
}

func (m *MockCatalogService) SetOutOfStock(ctx context.Context, id string, outOfStock bool) error {
	args := m.Called(ctx, id, outOfStock)
	return args.Error(0)
}

func (m *MockCatalogService) AttachImage(ctx context.Context, id string, upload media.Upload) (*model.Product, error) {
	args := m.Called(ctx, id, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockSupplierService is a mock implementation of SupplierService.
type MockSupplierService struct {
	mock.Mock
}

func (m *MockSupplierService) List(ctx context.Context) ([]model.Supplier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Supplier), args.Error(1)
}

func (m *MockSupplierService) Get(ctx context.Context, id string) (*model.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierService) GetBySlug(ctx context.Context, slug string) (*model.Supplier, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierService) Create(ctx context.Context, req *model.SupplierRequest) (*model.Supplier, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierService) Update(ctx context.Context, id string, req *model.SupplierRequest) (*model.Supplier, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

func (m *MockSupplierService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSupplierService) UploadLogo(ctx context.Context, id string, upload media.Upload) (*model.Supplier, error) {
	args := m.Called(ctx, id, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Supplier), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderResponse), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, status model.OrderStatus, page, pageSize int) (*model.OrderList, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderList), args.Error(1)
}

func (m *MockOrderService) Ship(ctx context.Context, id uuid.UUID, driverID string) (*model.Order, error) {
	args := m.Called(ctx, id, driverID)
	return orderArg(args)
}

func (m *MockOrderService) StartTrip(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	return orderArg(args)
}

func (m *MockOrderService) Deliver(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	return orderArg(args)
}

func (m *MockOrderService) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Order, error) {
	args := m.Called(ctx, id, reason)
	return orderArg(args)
}

func (m *MockOrderService) Track(ctx context.Context, id uuid.UUID) (*model.TrackingInfo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TrackingInfo), args.Error(1)
}

func orderArg(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockWishlistService is a mock implementation of WishlistService.
type MockWishlistService struct {
	mock.Mock
}

func (m *MockWishlistService) Add(ctx context.Context, userID, productID string) model.ActionResult {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(model.ActionResult)
}

func (m *MockWishlistService) Remove(ctx context.Context, userID, productID string) model.ActionResult {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(model.ActionResult)
}

func (m *MockWishlistService) Contains(ctx context.Context, userID, productID string) bool {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0)
}

func (m *MockWishlistService) List(ctx context.Context, userID string) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

// MockSeoService is a mock implementation of SeoService.
type MockSeoService struct {
	mock.Mock
}

func (m *MockSeoService) Create(ctx context.Context, req *model.SeoRequest) (*model.SeoEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeoEntry), args.Error(1)
}

func (m *MockSeoService) Get(ctx context.Context, id string) (*model.SeoEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeoEntry), args.Error(1)
}

func (m *MockSeoService) GetByEntity(ctx context.Context, entityType model.SeoEntityType, entityID string) (*model.SeoEntry, error) {
	args := m.Called(ctx, entityType, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SeoEntry), args.Error(1)
}

func (m *MockSeoService) List(ctx context.Context, search string) ([]model.SeoEntry, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SeoEntry), args.Error(1)
}

func (m *MockSeoService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPromotionService is a mock implementation of PromotionService.
type MockPromotionService struct {
	mock.Mock
}

func (m *MockPromotionService) Create(ctx context.Context, input model.PromotionInput, image *media.Upload) (*model.Promotion, error) {
	args := m.Called(ctx, input, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionService) Update(ctx context.Context, id string, input model.PromotionInput, image *media.Upload) (*model.Promotion, error) {
	args := m.Called(ctx, id, input, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionService) Get(ctx context.Context, id string) (*model.Promotion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promotion), args.Error(1)
}

func (m *MockPromotionService) List(ctx context.Context) ([]model.Promotion, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *MockPromotionService) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Promotion), args.Error(1)
}

func (m *MockPromotionService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportService is a mock implementation of ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Sales(ctx context.Context, from, to time.Time, showAll bool) (*model.SalesReport, error) {
	args := m.Called(ctx, from, to, showAll)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesReport), args.Error(1)
}

func (m *MockReportService) ProductPerformance(ctx context.Context, from, to time.Time) (*model.ProductPerformanceReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPerformanceReport), args.Error(1)
}

func (m *MockReportService) Inventory(ctx context.Context, outOfStockOnly bool) ([]model.InventoryRow, error) {
	args := m.Called(ctx, outOfStockOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InventoryRow), args.Error(1)
}

func (m *MockReportService) DriverOrders(ctx context.Context, driverID string, page int) (*model.DriverOrdersReport, error) {
	args := m.Called(ctx, driverID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DriverOrdersReport), args.Error(1)
}

// serve routes a single request through a chi router so URL params resolve.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(middleware.UserID)
	r.Method(method, pattern, h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
