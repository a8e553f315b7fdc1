package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront/internal/media"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PromotionHandler handles promotion forms. Create and Update accept either
// a JSON body or a multipart form with an optional "image" file.
type PromotionHandler struct {
	service service.PromotionService
	logger  zerolog.Logger
}

// NewPromotionHandler creates a new promotion handler.
func NewPromotionHandler(service service.PromotionService, logger zerolog.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		logger:  logger.With().Str("handler", "promotion").Logger(),
	}
}

// List handles GET /api/promotions. ?active=true restricts to running promotions.
func (h *PromotionHandler) List(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		writeServiceError(w, err, "failed to list promotions", h.logger)
		return
	}

	var promotions []model.Promotion
	if active {
		promotions, err = h.service.ListActive(r.Context(), time.Now())
	} else {
		promotions, err = h.service.List(r.Context())
	}
	if err != nil {
		writeServiceError(w, err, "failed to list promotions", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotions, h.logger)
}

// Get handles GET /api/promotions/{id}.
func (h *PromotionHandler) Get(w http.ResponseWriter, r *http.Request) {
	promotion, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve promotion", h.logger)
		return
	}
	if promotion == nil {
		writeError(w, http.StatusNotFound, "promotion not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, promotion, h.logger)
}

// Create handles POST /api/promotions.
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, image, closer, err := h.readForm(r)
	if err != nil {
		h.writeFormError(w, err, "failed to create promotion")
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	promotion, err := h.service.Create(r.Context(), input, image)
	if err != nil {
		h.writeFormError(w, err, "failed to create promotion")
		return
	}

	writeJSON(w, http.StatusCreated, model.FormResult{
		Success: true,
		Message: "promotion created",
		ID:      promotion.ID,
	}, h.logger)
}

// Update handles PUT /api/promotions/{id}.
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, image, closer, err := h.readForm(r)
	if err != nil {
		h.writeFormError(w, err, "failed to update promotion")
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	promotion, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input, image)
	if err != nil {
		h.writeFormError(w, err, "failed to update promotion")
		return
	}

	writeJSON(w, http.StatusOK, model.FormResult{
		Success: true,
		Message: "promotion updated",
		ID:      promotion.ID,
	}, h.logger)
}

// Delete handles DELETE /api/promotions/{id}.
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, "failed to delete promotion", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeFormError reports validation failures as a FormResult so forms can
// show messages next to each field.
func (h *PromotionHandler) writeFormError(w http.ResponseWriter, err error, fallback string) {
	var validationErr *model.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, model.FormResult{
			Message: "please fix the highlighted fields",
			Errors:  validationErr.Fields,
		}, h.logger)
		return
	}
	writeServiceError(w, err, fallback, h.logger)
}

func (h *PromotionHandler) readForm(r *http.Request) (model.PromotionInput, *media.Upload, io.Closer, error) {
	var input model.PromotionInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := decodeJSONBody(r, &input); err != nil {
			return input, nil, nil, err
		}
		return input, nil, nil, nil
	}

	image, closer, err := readUpload(r, "image")
	if err != nil {
		return input, nil, nil, err
	}

	var fieldErrs model.ValidationError
	input = model.PromotionInput{
		Title:             r.FormValue("title"),
		Description:       r.FormValue("description"),
		Type:              r.FormValue("type"),
		DiscountValue:     r.FormValue("discountValue"),
		DiscountType:      r.FormValue("discountType"),
		ProductIDs:        r.FormValue("productIds"),
		MinimumOrderValue: r.FormValue("minimumOrderValue"),
		StartDate:         r.FormValue("startDate"),
		EndDate:           r.FormValue("endDate"),
		RemoveImage:       formBool(r, "removeImage", &fieldErrs),
		Active:            formBool(r, "active", &fieldErrs),
	}
	if fieldErrs.HasErrors() {
		if closer != nil {
			closer.Close()
		}
		return input, nil, nil, &fieldErrs
	}
	return input, image, closer, nil
}

// formBool treats "on" as true, matching HTML checkbox submissions. Values
// that are not booleans are recorded in fieldErrs.
func formBool(r *http.Request, name string, fieldErrs *model.ValidationError) bool {
	raw := strings.TrimSpace(r.FormValue(name))
	switch raw {
	case "":
		return false
	case "on":
		return true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		fieldErrs.Add(name, "must be a boolean")
		return false
	}
	return value
}
