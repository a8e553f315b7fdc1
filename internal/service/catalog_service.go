package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 8
	maxPageSize     = 100
	relatedLimit    = 4
)

// FeedCache caches product feed pages.
type FeedCache interface {
	Get(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, bool)
	Set(ctx context.Context, slug string, page, pageSize int, result model.ProductPage) error
	Invalidate(ctx context.Context) error
}

// catalogService implements CatalogService.
type catalogService struct {
	products    repository.ProductRepository
	suppliers   repository.SupplierRepository
	cache       FeedCache
	images      *media.Resolver
	metrics     *metrics.FeedMetrics
	pageSize    int
	maxPageSize int
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	cache FeedCache,
	images *media.Resolver,
	feedMetrics *metrics.FeedMetrics,
	cfg config.FeedConfig,
	logger zerolog.Logger,
) CatalogService {
	if cfg.PageSize < 1 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = maxPageSize
	}
	logger = logger.With().Str("service", "catalog").Logger()
	if images == nil {
		images = media.NewResolver(nil, model.FallbackImage, logger)
	}
	return &catalogService{
		products:    products,
		suppliers:   suppliers,
		cache:       cache,
		images:      images,
		metrics:     feedMetrics,
		pageSize:    cfg.PageSize,
		maxPageSize: cfg.MaxPageSize,
		logger:      logger,
	}
}

// FetchPage implements the paginated product feed.
func (s *catalogService) FetchPage(ctx context.Context, slug string, page, pageSize int) model.ProductPage {
	start := time.Now()
	page, pageSize = s.normalizePaging(page, pageSize)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, slug, page, pageSize); ok {
			s.metrics.CacheHit()
			s.metrics.ObserveFetch(outcome(cached), len(cached.Items), time.Since(start))
			return cached
		}
		s.metrics.CacheMiss()
	}

	result, err := s.queryPage(ctx, slug, page, pageSize)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("slug", slug).
			Int("page", page).
			Int("page_size", pageSize).
			Msg("failed to fetch product page")
		s.metrics.ObserveFetch(metrics.OutcomeError, 0, time.Since(start))
		return model.EmptyPage()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, slug, page, pageSize, result); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache product page")
		}
	}

	s.metrics.ObserveFetch(outcome(result), len(result.Items), time.Since(start))

	return result
}

// queryPage fetches one row more than requested to learn whether another page exists.
func (s *catalogService) queryPage(ctx context.Context, slug string, page, pageSize int) (model.ProductPage, error) {
	supplierID := ""
	if slug != "" {
		id, err := s.suppliers.GetIDBySlug(ctx, slug)
		if err != nil {
			return model.ProductPage{}, fmt.Errorf("failed to resolve supplier slug: %w", err)
		}
		if id == "" {
			s.logger.Debug().Str("slug", slug).Msg("unknown supplier slug, serving unfiltered feed")
		}
		supplierID = id
	}

	rows, err := s.products.ListPublished(ctx, supplierID, pageSize+1, (page-1)*pageSize)
	if err != nil {
		return model.ProductPage{}, err
	}

	hasMore := len(rows) > pageSize
	if hasMore {
		rows = rows[:pageSize]
	}

	items := make([]model.Product, len(rows))
	for i := range rows {
		items[i] = rows[i]
		items[i].Normalize(model.FallbackImage)
	}

	return model.ProductPage{Items: items, HasMore: hasMore}, nil
}

func (s *catalogService) normalizePaging(page, pageSize int) (int, int) {
	page = clampPage(page)
	if pageSize <= 0 {
		pageSize = s.pageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

func outcome(page model.ProductPage) string {
	if len(page.Items) == 0 {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeOK
}

// GetByID retrieves a published product.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.Published {
		s.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}

	product.Normalize(model.FallbackImage)
	return product, nil
}

// Related returns up to limit published products of the same supplier.
func (s *catalogService) Related(ctx context.Context, id string, limit int) ([]model.Product, error) {
	if limit <= 0 || limit > s.maxPageSize {
		limit = relatedLimit
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	related, err := s.products.ListRelated(ctx, product.ID, product.SupplierID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get related products")
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}

	for i := range related {
		related[i].Normalize(model.FallbackImage)
	}
	return related, nil
}

// Create adds a product to the catalog.
func (s *catalogService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, model.NewDomainError(model.ErrCodeValidation, "price cannot be negative")
	}

	product := productFromRequest(uuid.NewString(), req)
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidate(ctx)
	s.logger.Info().Str("product_id", product.ID).Msg("product created")

	return product, nil
}

// Update overwrites a product's editable fields.
func (s *catalogService) Update(ctx context.Context, id string, req *model.ProductRequest) (*model.Product, error) {
	if err := s.checkSupplier(ctx, req.SupplierID); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, model.NewDomainError(model.ErrCodeValidation, "price cannot be negative")
	}

	updated, err := s.products.Update(ctx, productFromRequest(id, req))
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if updated == nil {
		return nil, model.ErrProductNotFound
	}

	s.invalidate(ctx)

	return updated, nil
}

// SetPublished shows or hides a product.
func (s *catalogService) SetPublished(ctx context.Context, id string, published bool) error {
	return s.toggle(ctx, id, "published", published, s.products.SetPublished)
}

// SetOutOfStock marks a product as sold out or available.
func (s *catalogService) SetOutOfStock(ctx context.Context, id string, outOfStock bool) error {
	return s.toggle(ctx, id, "out_of_stock", outOfStock, s.products.SetOutOfStock)
}

func (s *catalogService) toggle(ctx context.Context, id, field string, value bool, set func(context.Context, string, bool) (bool, error)) error {
	found, err := set(ctx, id, value)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Str("field", field).Msg("failed to update product flag")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if !found {
		return model.ErrProductNotFound
	}

	s.invalidate(ctx)
	s.logger.Info().Str("product_id", id).Bool(field, value).Msg("product flag updated")

	return nil
}

// AttachImage uploads an image and makes it the primary product image. A
// failed upload stores the fallback image path instead.
func (s *catalogService) AttachImage(ctx context.Context, id string, upload media.Upload) (*model.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	if upload.Folder == "" {
		upload.Folder = "products"
	}
	url, _ := s.images.Resolve(ctx, upload)

	images := make([]string, 0, len(product.Images)+1)
	images = append(images, url)
	for _, existing := range product.Images {
		if existing != url {
			images = append(images, existing)
		}
	}

	if _, err := s.products.SetImages(ctx, id, url, images); err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to store product image")
		return nil, fmt.Errorf("failed to store product image: %w", err)
	}

	product.ImageURL = url
	product.Images = images
	s.invalidate(ctx)

	return product, nil
}

func (s *catalogService) checkSupplier(ctx context.Context, supplierID string) error {
	supplier, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return model.ErrSupplierNotFound
	}
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate feed cache")
	}
}

func productFromRequest(id string, req *model.ProductRequest) *model.Product {
	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Name)
	}
	images := req.Images
	if len(images) == 0 && req.ImageURL != "" {
		images = []string{req.ImageURL}
	}
	return &model.Product{
		ID:         id,
		Name:       req.Name,
		Slug:       slug,
		Price:      req.Price,
		Details:    req.Details,
		Size:       req.Size,
		Published:  req.Published,
		OutOfStock: req.OutOfStock,
		ImageURL:   req.ImageURL,
		Images:     images,
		SupplierID: req.SupplierID,
	}
}
