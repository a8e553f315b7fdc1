package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	Products   *handler.ProductHandler
	Suppliers  *handler.SupplierHandler
	Orders     *handler.OrderHandler
	Wishlist   *handler.WishlistHandler
	Promotions *handler.PromotionHandler
	Reports    *handler.ReportHandler
	Seo        *handler.SeoHandler
}

// Options configures cross-cutting concerns.
type Options struct {
	APIKey      string
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware order: Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth -> UserID
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics(opts.HTTPMetrics))
	r.Use(middleware.CORS)
	r.Use(middleware.APIKeyAuth(opts.APIKey, logger))
	r.Use(middleware.UserID)

	// Health check endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/feed", h.Products.Feed)
			r.Post("/", h.Products.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Products.GetByID)
				r.Put("/", h.Products.Update)
				r.Get("/related", h.Products.Related)
				r.Patch("/publish", h.Products.SetPublished)
				r.Patch("/stock", h.Products.SetOutOfStock)
				r.Post("/image", h.Products.UploadImage)
			})
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", h.Suppliers.List)
			r.Post("/", h.Suppliers.Create)
			r.Get("/slug/{slug}", h.Suppliers.GetBySlug)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Suppliers.GetByID)
				r.Put("/", h.Suppliers.Update)
				r.Delete("/", h.Suppliers.Delete)
				r.Post("/logo", h.Suppliers.UploadLogo)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Post("/", h.Orders.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.Orders.GetByID)
				r.Post("/ship", h.Orders.Ship)
				r.Post("/start-trip", h.Orders.StartTrip)
				r.Post("/deliver", h.Orders.Deliver)
				r.Post("/cancel", h.Orders.Cancel)
				r.Get("/track", h.Orders.Track)
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", h.Wishlist.List)
			r.Get("/{productId}", h.Wishlist.Contains)
			r.Post("/{productId}", h.Wishlist.Add)
			r.Delete("/{productId}", h.Wishlist.Remove)
		})

		r.Route("/promotions", func(r chi.Router) {
			r.Get("/", h.Promotions.List)
			r.Post("/", h.Promotions.Create)
			r.Get("/{id}", h.Promotions.Get)
			r.Put("/{id}", h.Promotions.Update)
			r.Delete("/{id}", h.Promotions.Delete)
		})

		r.Route("/seo", func(r chi.Router) {
			r.Get("/", h.Seo.List)
			r.Post("/", h.Seo.Create)
			r.Get("/entity/{entityType}/{entityId}", h.Seo.GetByEntity)
			r.Get("/{id}", h.Seo.Get)
			r.Delete("/{id}", h.Seo.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/sales", h.Reports.Sales)
			r.Get("/products", h.Reports.Products)
			r.Get("/inventory", h.Reports.Inventory)
			r.Get("/drivers/{driverId}/orders", h.Reports.DriverOrders)
		})
	})

	return r
}
