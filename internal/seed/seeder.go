package seed

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productNamespace derives stable product IDs from supplier and product slugs.
var productNamespace = uuid.MustParse("6f1c3c5e-2f0a-4d4e-9a51-0f3b7f2c8d11")

// Invalidator drops cached feed pages after the catalog changes.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Result summarises one Apply run.
type Result struct {
	Suppliers       int
	ProductsCreated int
	ProductsUpdated int
}

// Seeder writes a Catalog to the database. Applying the same catalog twice
// leaves the database unchanged.
type Seeder struct {
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	cache     Invalidator
	logger    zerolog.Logger
}

// NewSeeder creates a new seeder. cache may be nil.
func NewSeeder(
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	cache Invalidator,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		suppliers: suppliers,
		products:  products,
		cache:     cache,
		logger:    logger.With().Str("component", "seeder").Logger(),
	}
}

// Apply upserts every supplier, then creates or updates every product.
func (s *Seeder) Apply(ctx context.Context, catalog *Catalog) (Result, error) {
	var result Result
	if catalog == nil {
		return result, nil
	}

	supplierIDs := make(map[string]string, len(catalog.Suppliers))
	for i := range catalog.Suppliers {
		supplier := catalog.Suppliers[i]
		if supplier.ID == "" {
			supplier.ID = uuid.NewSHA1(productNamespace, []byte("supplier:"+supplier.Slug)).String()
		}
		if err := s.suppliers.Upsert(ctx, &supplier); err != nil {
			return result, fmt.Errorf("failed to upsert supplier %s: %w", supplier.Slug, err)
		}
		supplierIDs[supplier.Slug] = supplier.ID
		result.Suppliers++
	}

	for _, rec := range catalog.Products {
		supplierID, err := s.resolveSupplier(ctx, supplierIDs, rec.SupplierSlug)
		if err != nil {
			return result, err
		}

		product := rec.Product
		product.SupplierID = supplierID
		if product.Slug == "" {
			product.Slug = service.Slugify(product.Name)
		}
		if product.ID == "" {
			product.ID = ProductID(rec.SupplierSlug, product.Slug)
		}
		if product.Images == nil {
			product.Images = []string{}
		}

		existing, err := s.products.GetByID(ctx, product.ID)
		if err != nil {
			return result, fmt.Errorf("failed to look up product %s: %w", product.ID, err)
		}

		if existing == nil {
			if err := s.products.Create(ctx, &product); err != nil {
				return result, fmt.Errorf("failed to create product %s: %w", product.ID, err)
			}
			result.ProductsCreated++
			continue
		}

		if _, err := s.products.Update(ctx, &product); err != nil {
			return result, fmt.Errorf("failed to update product %s: %w", product.ID, err)
		}
		result.ProductsUpdated++
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate feed cache")
		}
	}

	s.logger.Info().
		Int("suppliers", result.Suppliers).
		Int("products_created", result.ProductsCreated).
		Int("products_updated", result.ProductsUpdated).
		Msg("catalog applied")

	return result, nil
}

func (s *Seeder) resolveSupplier(ctx context.Context, known map[string]string, slug string) (string, error) {
	if id, ok := known[slug]; ok {
		return id, nil
	}

	id, err := s.suppliers.GetIDBySlug(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("failed to resolve supplier %s: %w", slug, err)
	}
	if id == "" {
		return "", model.NewDomainError(model.ErrCodeSupplierNotFound, fmt.Sprintf("supplier %s not found", slug))
	}

	known[slug] = id
	return id, nil
}

// ProductID returns the stable ID used for a seeded product.
func ProductID(supplierSlug, productSlug string) string {
	return uuid.NewSHA1(productNamespace, []byte(supplierSlug+"/"+productSlug)).String()
}
