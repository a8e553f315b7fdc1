package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SupplierHandler handles supplier-related HTTP requests.
type SupplierHandler struct {
	service service.SupplierService
	logger  zerolog.Logger
}

// NewSupplierHandler creates a new supplier handler.
func NewSupplierHandler(service service.SupplierService, logger zerolog.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		logger:  logger.With().Str("handler", "supplier").Logger(),
	}
}

// List handles GET /api/suppliers.
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to retrieve suppliers", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, suppliers, h.logger)
}

// GetByID handles GET /api/suppliers/{id}.
func (h *SupplierHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	h.writeSupplier(w, supplier, err)
}

// GetBySlug handles GET /api/suppliers/slug/{slug}.
func (h *SupplierHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	supplier, err := h.service.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	h.writeSupplier(w, supplier, err)
}

func (h *SupplierHandler) writeSupplier(w http.ResponseWriter, supplier *model.Supplier, err error) {
	if err != nil {
		writeServiceError(w, err, "failed to retrieve supplier", h.logger)
		return
	}
	if supplier == nil {
		writeError(w, http.StatusNotFound, "supplier not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, supplier, h.logger)
}

// Create handles POST /api/suppliers.
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SupplierRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to create supplier", h.logger)
		return
	}

	supplier, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create supplier", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, supplier, h.logger)
}

// Update handles PUT /api/suppliers/{id}.
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.SupplierRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to update supplier", h.logger)
		return
	}

	supplier, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, err, "failed to update supplier", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, supplier, h.logger)
}

// Delete handles DELETE /api/suppliers/{id}.
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete supplier", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadLogo handles POST /api/suppliers/{id}/logo with a multipart "logo" field.
func (h *SupplierHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	upload, closer, err := readUpload(r, "logo")
	if err != nil {
		writeServiceError(w, err, "failed to upload logo", h.logger)
		return
	}
	if upload == nil {
		writeServiceError(w, model.NewDomainError(model.ErrCodeMissingField, "logo is required"), "failed to upload logo", h.logger)
		return
	}
	defer closer.Close()

	supplier, err := h.service.UploadLogo(r.Context(), chi.URLParam(r, "id"), *upload)
	if err != nil {
		writeServiceError(w, err, "failed to upload logo", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, supplier, h.logger)
}
