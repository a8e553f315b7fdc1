package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/repository"
	"storefront/internal/seed"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	files := flag.String("files", "", "comma-separated catalog files (defaults to SEED_FILES)")
	migrate := flag.Bool("migrate", true, "apply database migrations before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting catalog seed")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if *migrate {
		if err := database.Migrate(ctx, pool, "up", logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Catalog loader with S3 and local fallback
	fileLoader := seed.NewFileLoader(logger)
	var s3Loader seed.Loader
	if cfg.S3.Enabled {
		s3Loader, err = seed.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	} else {
		logger.Info().Msg("using local file system for catalog files (S3 disabled)")
	}
	loader := seed.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, s3Loader != nil, logger)

	names := cfg.Seed.Files
	if *files != "" {
		names = strings.Split(*files, ",")
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		paths = append(paths, filepath.Join(cfg.Seed.Dir, name))
	}

	catalog, err := seed.LoadAll(ctx, loader, paths, logger)
	if err != nil {
		return err
	}

	var invalidator seed.Invalidator
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to connect to redis, cached feed pages will expire on their own")
		} else {
			defer client.Close()
			invalidator = cache.NewFeedCache(client, cfg.Redis.CacheTTL(), logger)
		}
	}

	seeder := seed.NewSeeder(
		repository.NewSupplierRepository(pool, logger),
		repository.NewProductRepository(pool, logger),
		invalidator,
		logger,
	)

	result, err := seeder.Apply(ctx, catalog)
	if err != nil {
		return fmt.Errorf("failed to apply catalog: %w", err)
	}

	fmt.Printf("seeded %d suppliers, %d new products, %d updated products\n",
		result.Suppliers, result.ProductsCreated, result.ProductsUpdated)
	return nil
}
