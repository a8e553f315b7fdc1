package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WishlistHandler handles the signed-in user's wishlist. Add and Remove
// always answer 200 with an ActionResult; the message tells the outcome.
type WishlistHandler struct {
	service service.WishlistService
	logger  zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(service service.WishlistService, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: service,
		logger:  logger.With().Str("handler", "wishlist").Logger(),
	}
}

// List handles GET /api/wishlist.
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), middleware.UserIDFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve wishlist", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products, h.logger)
}

// Contains handles GET /api/wishlist/{productId}.
func (h *WishlistHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	inWishlist := h.service.Contains(r.Context(), userID, chi.URLParam(r, "productId"))

	writeJSON(w, http.StatusOK, map[string]bool{"inWishlist": inWishlist}, h.logger)
}

// Add handles POST /api/wishlist/{productId}.
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.service.Add(r.Context(), userID, chi.URLParam(r, "productId")), h.logger)
}

// Remove handles DELETE /api/wishlist/{productId}.
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.service.Remove(r.Context(), userID, chi.URLParam(r, "productId")), h.logger)
}
