package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Accepted date layouts for promotion windows.
var promotionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// promotionService implements PromotionService.
type promotionService struct {
	promotions repository.PromotionRepository
	images     *media.Resolver
	logger     zerolog.Logger
}

// NewPromotionService creates a new promotion service.
func NewPromotionService(
	promotions repository.PromotionRepository,
	images *media.Resolver,
	logger zerolog.Logger,
) PromotionService {
	logger = logger.With().Str("service", "promotion").Logger()
	if images == nil {
		images = media.NewResolver(nil, "", logger)
	}
	return &promotionService{
		promotions: promotions,
		images:     images,
		logger:     logger,
	}
}

// Create validates the input and stores a new promotion.
func (s *promotionService) Create(ctx context.Context, input model.PromotionInput, image *media.Upload) (*model.Promotion, error) {
	promotion, verr := parsePromotion(input)
	if verr.HasErrors() {
		return nil, verr
	}

	promotion.ID = uuid.NewString()
	if image != nil {
		promotion.ImageURL = s.upload(ctx, *image)
	}

	if err := s.promotions.Create(ctx, promotion); err != nil {
		s.logger.Error().Err(err).Str("title", promotion.Title).Msg("failed to create promotion")
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	s.logger.Info().Str("promotion_id", promotion.ID).Str("type", string(promotion.Type)).Msg("promotion created")
	return promotion, nil
}

// Update validates the input and overwrites an existing promotion. A failed
// image upload keeps the current image.
func (s *promotionService) Update(ctx context.Context, id string, input model.PromotionInput, image *media.Upload) (*model.Promotion, error) {
	promotion, verr := parsePromotion(input)
	if verr.HasErrors() {
		return nil, verr
	}

	existing, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to get promotion")
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	if existing == nil {
		return nil, model.ErrNotFound
	}

	promotion.ID = id
	promotion.CreatedAt = existing.CreatedAt
	switch {
	case input.RemoveImage:
		promotion.ImageURL = nil
	case image != nil:
		promotion.ImageURL = s.upload(ctx, *image)
		if promotion.ImageURL == nil {
			promotion.ImageURL = existing.ImageURL
		}
	default:
		promotion.ImageURL = existing.ImageURL
	}

	updated, err := s.promotions.Update(ctx, promotion)
	if err != nil {
		s.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to update promotion")
		return nil, fmt.Errorf("failed to update promotion: %w", err)
	}
	if updated == nil {
		return nil, model.ErrNotFound
	}

	return updated, nil
}

func (s *promotionService) upload(ctx context.Context, image media.Upload) *string {
	if image.Folder == "" {
		image.Folder = "promotions"
	}
	url, ok := s.images.Resolve(ctx, image)
	if !ok {
		return nil
	}
	return &url
}

func (s *promotionService) Get(ctx context.Context, id string) (*model.Promotion, error) {
	promotion, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to get promotion")
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}
	return promotion, nil
}

func (s *promotionService) List(ctx context.Context) ([]model.Promotion, error) {
	promotions, err := s.promotions.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list promotions")
		return nil, fmt.Errorf("failed to list promotions: %w", err)
	}
	return promotions, nil
}

func (s *promotionService) ListActive(ctx context.Context, now time.Time) ([]model.Promotion, error) {
	if now.IsZero() {
		now = time.Now()
	}
	promotions, err := s.promotions.ListActive(ctx, now)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list active promotions")
		return nil, fmt.Errorf("failed to list active promotions: %w", err)
	}
	return promotions, nil
}

func (s *promotionService) Delete(ctx context.Context, id string) error {
	deleted, err := s.promotions.Delete(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("promotion_id", id).Msg("failed to delete promotion")
		return fmt.Errorf("failed to delete promotion: %w", err)
	}
	if !deleted {
		return model.ErrNotFound
	}
	return nil
}

// parsePromotion converts raw form input into a promotion, collecting
// every field error.
func parsePromotion(input model.PromotionInput) (*model.Promotion, *model.ValidationError) {
	verr := &model.ValidationError{}
	p := &model.Promotion{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Type:        model.PromotionType(strings.ToUpper(strings.TrimSpace(input.Type))),
		ProductIDs:  splitIDs(input.ProductIDs),
		Active:      input.Active,
	}

	if p.Title == "" {
		verr.Add("title", "title is required")
	}
	switch p.Type {
	case model.PromotionTypeOffer, model.PromotionTypeDiscount, model.PromotionTypeBanner:
	case "":
		verr.Add("type", "type is required")
	default:
		verr.Add("type", "type must be one of OFFER, DISCOUNT, BANNER")
	}

	if raw := strings.TrimSpace(input.DiscountValue); raw != "" {
		value, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			verr.Add("discountValue", "discount value must be a number")
		case value.IsNegative():
			verr.Add("discountValue", "discount value cannot be negative")
		default:
			p.DiscountValue = &value
		}
	}

	if raw := strings.ToUpper(strings.TrimSpace(input.DiscountType)); raw != "" {
		dt := model.DiscountType(raw)
		switch dt {
		case model.DiscountTypePercentage, model.DiscountTypeFixedAmount:
			p.DiscountType = &dt
		default:
			verr.Add("discountType", "discount type must be PERCENTAGE or FIXED_AMOUNT")
		}
	}
	if strings.TrimSpace(input.DiscountValue) != "" && strings.TrimSpace(input.DiscountType) == "" {
		verr.Add("discountType", "discount type is required when a discount value is set")
	}
	if p.DiscountValue != nil && p.DiscountType != nil &&
		*p.DiscountType == model.DiscountTypePercentage && p.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		verr.Add("discountValue", "percentage discount cannot exceed 100")
	}

	if raw := strings.TrimSpace(input.MinimumOrderValue); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			verr.Add("minimumOrderValue", "minimum order value must be a number")
		} else {
			p.MinimumOrderValue = &value
		}
	}

	p.StartDate = parsePromotionDate(input.StartDate, "startDate", verr)
	p.EndDate = parsePromotionDate(input.EndDate, "endDate", verr)
	if p.StartDate != nil && p.EndDate != nil && !p.StartDate.Before(*p.EndDate) {
		verr.Add("endDate", "end date must be after start date")
	}

	return p, verr
}

func parsePromotionDate(raw, field string, verr *model.ValidationError) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range promotionDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	verr.Add(field, "invalid date")
	return nil
}

// splitIDs parses a comma separated list, dropping blanks.
func splitIDs(raw string) []string {
	ids := []string{}
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
