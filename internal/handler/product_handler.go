package handler

import (
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const defaultRelatedLimit = 4

type publishRequest struct {
	Published *bool `json:"published" validate:"required"`
}

type stockRequest struct {
	OutOfStock *bool `json:"outOfStock" validate:"required"`
}

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Feed handles GET /api/products/feed. Out of range paging values are
// clamped by the service; non-numeric ones are rejected.
func (h *ProductHandler) Feed(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, err, "failed to load products", h.logger)
		return
	}

	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		writeServiceError(w, err, "failed to load products", h.logger)
		return
	}

	slug := strings.TrimSpace(r.URL.Query().Get("slug"))

	writeJSON(w, http.StatusOK, h.service.FetchPage(r.Context(), slug, page, pageSize), h.logger)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve product", h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}

// Related handles GET /api/products/{id}/related.
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultRelatedLimit)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve related products", h.logger)
		return
	}

	products, err := h.service.Related(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve related products", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products, h.logger)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to create product", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create product", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product, h.logger)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}

// SetPublished handles PATCH /api/products/{id}/publish.
func (h *ProductHandler) SetPublished(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	if err := h.service.SetPublished(r.Context(), chi.URLParam(r, "id"), *req.Published); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetOutOfStock handles PATCH /api/products/{id}/stock.
func (h *ProductHandler) SetOutOfStock(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	if err := h.service.SetOutOfStock(r.Context(), chi.URLParam(r, "id"), *req.OutOfStock); err != nil {
		writeServiceError(w, err, "failed to update product", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/products/{id}/image with a multipart "image" field.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	upload, closer, err := readUpload(r, "image")
	if err != nil {
		writeServiceError(w, err, "failed to upload image", h.logger)
		return
	}
	if upload == nil {
		writeServiceError(w, model.NewDomainError(model.ErrCodeMissingField, "image is required"), "failed to upload image", h.logger)
		return
	}
	defer closer.Close()

	product, err := h.service.AttachImage(r.Context(), chi.URLParam(r, "id"), *upload)
	if err != nil {
		writeServiceError(w, err, "failed to upload image", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}
