package handler

import (
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SeoHandler handles SEO entry HTTP requests.
type SeoHandler struct {
	service service.SeoService
	logger  zerolog.Logger
}

// NewSeoHandler creates a new SEO entry handler.
func NewSeoHandler(service service.SeoService, logger zerolog.Logger) *SeoHandler {
	return &SeoHandler{
		service: service,
		logger:  logger.With().Str("handler", "seo").Logger(),
	}
}

// List handles GET /api/seo?q=.
func (h *SeoHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve seo entries", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, entries, h.logger)
}

// Get handles GET /api/seo/{id}.
func (h *SeoHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	h.writeEntry(w, entry, err)
}

// GetByEntity handles GET /api/seo/entity/{entityType}/{entityId}.
func (h *SeoHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := model.SeoEntityType(strings.ToUpper(chi.URLParam(r, "entityType")))
	if !entityType.Valid() {
		writeServiceError(w, model.NewDomainError(model.ErrCodeValidation, "unknown entity type"), "failed to retrieve seo entry", h.logger)
		return
	}

	entry, err := h.service.GetByEntity(r.Context(), entityType, chi.URLParam(r, "entityId"))
	h.writeEntry(w, entry, err)
}

func (h *SeoHandler) writeEntry(w http.ResponseWriter, entry *model.SeoEntry, err error) {
	if err != nil {
		writeServiceError(w, err, "failed to retrieve seo entry", h.logger)
		return
	}
	if entry == nil {
		writeServiceError(w, model.ErrSeoEntryNotFound, "failed to retrieve seo entry", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, entry, h.logger)
}

// Create handles POST /api/seo.
func (h *SeoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SeoRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to create seo entry", h.logger)
		return
	}

	entry, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create seo entry", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, entry, h.logger)
}

// Delete handles DELETE /api/seo/{id}.
func (h *SeoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete seo entry", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
