package service

import (
	"context"
	"fmt"

	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// supplierService implements SupplierService.
type supplierService struct {
	suppliers repository.SupplierRepository
	cache     FeedCache
	images    *media.Resolver
	logger    zerolog.Logger
}

// NewSupplierService creates a new supplier service. cache may be nil.
func NewSupplierService(
	suppliers repository.SupplierRepository,
	cache FeedCache,
	images *media.Resolver,
	logger zerolog.Logger,
) SupplierService {
	logger = logger.With().Str("service", "supplier").Logger()
	if images == nil {
		images = media.NewResolver(nil, model.FallbackImage, logger)
	}
	return &supplierService{
		suppliers: suppliers,
		cache:     cache,
		images:    images,
		logger:    logger,
	}
}

func (s *supplierService) List(ctx context.Context) ([]model.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list suppliers")
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

func (s *supplierService) Get(ctx context.Context, id string) (*model.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to get supplier")
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) GetBySlug(ctx context.Context, slug string) (*model.Supplier, error) {
	supplier, err := s.suppliers.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get supplier")
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

// Create stores a supplier, deriving the slug from the name when absent.
func (s *supplierService) Create(ctx context.Context, req *model.SupplierRequest) (*model.Supplier, error) {
	supplier := supplierFromRequest(uuid.NewString(), req)
	if supplier.Slug == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "supplier name must contain letters or digits")
	}

	if err := s.suppliers.Create(ctx, supplier); err != nil {
		s.logger.Error().Err(err).Str("slug", supplier.Slug).Msg("failed to create supplier")
		return nil, fmt.Errorf("failed to create supplier: %w", err)
	}

	// A feed cached for this slug before it existed holds the unfiltered page.
	s.invalidate(ctx)

	s.logger.Info().Str("supplier_id", supplier.ID).Str("slug", supplier.Slug).Msg("supplier created")
	return supplier, nil
}

func (s *supplierService) Update(ctx context.Context, id string, req *model.SupplierRequest) (*model.Supplier, error) {
	updated, err := s.suppliers.Update(ctx, supplierFromRequest(id, req))
	if err != nil {
		s.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to update supplier")
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}
	if updated == nil {
		return nil, model.ErrSupplierNotFound
	}

	// Supplier name, slug and logo are embedded in feed items.
	s.invalidate(ctx)

	return updated, nil
}

// Delete removes a supplier that no longer owns any product.
func (s *supplierService) Delete(ctx context.Context, id string) error {
	count, err := s.suppliers.CountProducts(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to count supplier products")
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if count > 0 {
		s.logger.Warn().Str("supplier_id", id).Int("product_count", count).Msg("supplier still has products")
		return model.ErrSupplierHasProducts
	}

	deleted, err := s.suppliers.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to delete supplier")
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if !deleted {
		return model.ErrSupplierNotFound
	}

	s.logger.Info().Str("supplier_id", id).Msg("supplier deleted")
	return nil
}

// UploadLogo stores a new logo. A failed upload leaves the fallback image.
func (s *supplierService) UploadLogo(ctx context.Context, id string, upload media.Upload) (*model.Supplier, error) {
	supplier, err := s.suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, model.ErrSupplierNotFound
	}

	if upload.Folder == "" {
		upload.Folder = "suppliers"
	}
	supplier.Logo, _ = s.images.Resolve(ctx, upload)

	updated, err := s.suppliers.Update(ctx, supplier)
	if err != nil {
		s.logger.Error().Err(err).Str("supplier_id", id).Msg("failed to store supplier logo")
		return nil, fmt.Errorf("failed to store supplier logo: %w", err)
	}
	if updated == nil {
		return nil, model.ErrSupplierNotFound
	}

	s.invalidate(ctx)

	return updated, nil
}

func (s *supplierService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate feed cache")
	}
}

func supplierFromRequest(id string, req *model.SupplierRequest) *model.Supplier {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	return &model.Supplier{
		ID:      id,
		Name:    req.Name,
		Slug:    slug,
		Logo:    req.Logo,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Type:    req.Type,
	}
}
