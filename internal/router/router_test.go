package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/handler"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

const testAPIKey = "router-test-key"

// stubCatalog serves a fixed feed page and records the arguments it saw.
type stubCatalog struct {
	slug           string
	page, pageSize int
}

func (s *stubCatalog) FetchPage(_ context.Context, slug string, page, pageSize int) model.ProductPage {
	s.slug, s.page, s.pageSize = slug, page, pageSize
	return model.ProductPage{Items: []model.Product{{ID: "p-1"}}, HasMore: false}
}

func (s *stubCatalog) GetByID(context.Context, string) (*model.Product, error) { return nil, nil }
func (s *stubCatalog) Related(context.Context, string, int) ([]model.Product, error) {
	return []model.Product{}, nil
}
func (s *stubCatalog) Create(context.Context, *model.ProductRequest) (*model.Product, error) {
	return nil, nil
}
func (s *stubCatalog) Update(context.Context, string, *model.ProductRequest) (*model.Product, error) {
	return nil, nil
}
func (s *stubCatalog) SetPublished(context.Context, string, bool) error  { return nil }
func (s *stubCatalog) SetOutOfStock(context.Context, string, bool) error { return nil }
func (s *stubCatalog) AttachImage(context.Context, string, media.Upload) (*model.Product, error) {
	return nil, nil
}

func newTestRouter(catalog *stubCatalog) (http.Handler, *prometheus.Registry) {
	logger := zerolog.Nop()
	reg := prometheus.NewRegistry()

	h := Handlers{
		Products:   handler.NewProductHandler(catalog, logger),
		Suppliers:  handler.NewSupplierHandler(nil, logger),
		Orders:     handler.NewOrderHandler(nil, logger),
		Wishlist:   handler.NewWishlistHandler(nil, logger),
		Promotions: handler.NewPromotionHandler(nil, logger),
		Reports:    handler.NewReportHandler(nil, logger),
		Seo:        handler.NewSeoHandler(nil, logger),
	}

	return New(h, Options{
		APIKey:      testAPIKey,
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
	}, logger), reg
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}

func TestRouter_FeedRequiresAPIKey(t *testing.T) {
	catalog := &stubCatalog{}
	r, _ := newTestRouter(catalog)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/feed", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/products/feed?slug=acme&page=2&pageSize=8", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", catalog.slug)
	assert.Equal(t, 2, catalog.page)
	assert.Equal(t, 8, catalog.pageSize)
}

func TestRouter_FeedIsNotTreatedAsProductID(t *testing.T) {
	catalog := &stubCatalog{}
	r, _ := newTestRouter(catalog)

	req := httptest.NewRequest(http.MethodGet, "/api/products/feed", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hasMore":false`)
}

func TestRouter_SeoEntityRouteIsNotTreatedAsID(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/seo/entity/coupon/p-1", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown entity type")
}

func TestRouter_UnknownRoute(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/orders", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/api/products/feed", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/products/feed"`), "metrics should label by route pattern")
}
