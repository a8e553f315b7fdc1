package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting storefront API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, "up", logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	supplierRepo := repository.NewSupplierRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	wishlistRepo := repository.NewWishlistRepository(pool, logger)
	promotionRepo := repository.NewPromotionRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)
	seoRepo := repository.NewSeoRepository(pool, logger)

	// Feed page cache is optional; without Redis every request hits the database
	var feedCache service.FeedCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, feed cache disabled")
		} else {
			defer client.Close()
			feedCache = cache.NewFeedCache(client, cfg.Redis.CacheTTL(), logger)
			logger.Info().Str("addr", cfg.Redis.Addr).Msg("feed cache enabled")
		}
	}

	uploader := newUploader(ctx, cfg, logger)

	// Metrics
	feedMetrics := metrics.NewFeedMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	// Initialize services
	catalogService := service.NewCatalogService(
		productRepo,
		supplierRepo,
		feedCache,
		media.NewResolver(uploader, model.FallbackImage, logger),
		feedMetrics,
		cfg.Feed,
		logger,
	)
	supplierService := service.NewSupplierService(
		supplierRepo,
		feedCache,
		media.NewResolver(uploader, model.FallbackImage, logger),
		logger,
	)
	orderService := service.NewOrderService(orderRepo, productRepo, logger)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo, logger)
	promotionService := service.NewPromotionService(
		promotionRepo,
		media.NewResolver(uploader, model.FallbackImage, logger),
		logger,
	)
	reportService := service.NewReportService(reportRepo, orderRepo, logger)
	seoService := service.NewSeoService(seoRepo, logger)

	// Initialize router
	mux := router.New(router.Handlers{
		Products:   handler.NewProductHandler(catalogService, logger),
		Suppliers:  handler.NewSupplierHandler(supplierService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Wishlist:   handler.NewWishlistHandler(wishlistService, logger),
		Promotions: handler.NewPromotionHandler(promotionService, logger),
		Reports:    handler.NewReportHandler(reportService, logger),
		Seo:        handler.NewSeoHandler(seoService, logger),
	}, router.Options{
		APIKey:      cfg.Auth.APIKey,
		Gatherer:    prometheus.DefaultGatherer,
		HTTPMetrics: httpMetrics,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newUploader picks the image store named by MEDIA_PROVIDER. Any failure
// leaves uploads disabled so products fall back to the placeholder image.
func newUploader(ctx context.Context, cfg *config.Config, logger zerolog.Logger) media.Uploader {
	var (
		uploader media.Uploader
		err      error
	)

	switch cfg.Media.Provider {
	case "s3":
		uploader, err = media.NewS3Uploader(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.MediaPrefix, cfg.S3.PublicBaseURL, logger)
	case "cloudinary":
		uploader, err = media.NewCloudinaryUploader(
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret,
			cfg.Cloudinary.Folder,
			logger,
		)
	default:
		logger.Info().Msg("media uploads disabled")
		return media.NewNopUploader()
	}

	if err != nil {
		logger.Warn().
			Err(err).
			Str("provider", cfg.Media.Provider).
			Msg("failed to initialise media uploader, uploads disabled")
		return media.NewNopUploader()
	}

	logger.Info().Str("provider", cfg.Media.Provider).Msg("media uploads enabled")
	return uploader
}
