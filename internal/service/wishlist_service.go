package service

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Wishlist result messages.
const (
	msgWishlistSignIn    = "you must be signed in to manage your wishlist"
	msgWishlistAdded     = "product added to wishlist"
	msgWishlistExists    = "product already exists in wishlist"
	msgWishlistRemoved   = "product removed from wishlist"
	msgWishlistMissing   = "product is not in wishlist"
	msgWishlistNoProduct = "product not found"
	msgWishlistFailed    = "could not update wishlist, please try again"
)

// wishlistService implements WishlistService.
type wishlistService struct {
	wishlist repository.WishlistRepository
	products repository.ProductRepository
	logger   zerolog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(
	wishlist repository.WishlistRepository,
	products repository.ProductRepository,
	logger zerolog.Logger,
) WishlistService {
	return &wishlistService{
		wishlist: wishlist,
		products: products,
		logger:   logger.With().Str("service", "wishlist").Logger(),
	}
}

// Add saves a product for the user. Adding a pair that already exists
// reports a failed result and writes nothing.
func (s *wishlistService) Add(ctx context.Context, userID, productID string) model.ActionResult {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.ActionResult{Message: msgWishlistSignIn}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).Msg("failed to get product")
		return model.ActionResult{Message: msgWishlistFailed}
	}
	if product == nil {
		return model.ActionResult{Message: msgWishlistNoProduct}
	}

	exists, err := s.wishlist.Exists(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to check wishlist")
		return model.ActionResult{Message: msgWishlistFailed}
	}
	if exists {
		return model.ActionResult{Message: msgWishlistExists}
	}

	item := &model.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
	}
	if err := s.wishlist.Add(ctx, item); err != nil {
		// Lost a race with a concurrent add of the same pair.
		if errors.Is(err, model.ErrWishlistItemExists) {
			return model.ActionResult{Message: msgWishlistExists}
		}
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to add wishlist item")
		return model.ActionResult{Message: msgWishlistFailed}
	}

	s.logger.Info().Str("user_id", userID).Str("product_id", productID).Msg("wishlist item added")
	return model.ActionResult{Success: true, Message: msgWishlistAdded}
}

func (s *wishlistService) Remove(ctx context.Context, userID, productID string) model.ActionResult {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.ActionResult{Message: msgWishlistSignIn}
	}

	removed, err := s.wishlist.Remove(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to remove wishlist item")
		return model.ActionResult{Message: msgWishlistFailed}
	}
	if removed == 0 {
		return model.ActionResult{Message: msgWishlistMissing}
	}

	return model.ActionResult{Success: true, Message: msgWishlistRemoved}
}

// Contains reports false on any failure.
func (s *wishlistService) Contains(ctx context.Context, userID, productID string) bool {
	if strings.TrimSpace(userID) == "" {
		return false
	}
	exists, err := s.wishlist.Exists(ctx, userID, productID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Str("product_id", productID).Msg("failed to check wishlist")
		return false
	}
	return exists
}

// List returns the user's saved products, newest first.
func (s *wishlistService) List(ctx context.Context, userID string) ([]model.Product, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.ErrUnauthorised
	}

	products, err := s.wishlist.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to list wishlist")
		return nil, err
	}

	return normalizeProducts(products, model.FallbackWishlistImage), nil
}
