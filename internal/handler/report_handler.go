package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const reportDateLayout = "2006-01-02"

// ReportHandler serves the dashboard reports.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// Sales handles GET /api/reports/sales?from&to&showAll.
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	from, to, err := reportWindow(r)
	if err != nil {
		writeServiceError(w, err, "failed to build sales report", h.logger)
		return
	}
	showAll, err := queryBool(r, "showAll")
	if err != nil {
		writeServiceError(w, err, "failed to build sales report", h.logger)
		return
	}

	report, err := h.service.Sales(r.Context(), from, to, showAll)
	if err != nil {
		writeServiceError(w, err, "failed to build sales report", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// Products handles GET /api/reports/products?from&to.
func (h *ReportHandler) Products(w http.ResponseWriter, r *http.Request) {
	from, to, err := reportWindow(r)
	if err != nil {
		writeServiceError(w, err, "failed to build product report", h.logger)
		return
	}

	report, err := h.service.ProductPerformance(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err, "failed to build product report", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// Inventory handles GET /api/reports/inventory?outOfStock=true.
func (h *ReportHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	outOfStock, err := queryBool(r, "outOfStock")
	if err != nil {
		writeServiceError(w, err, "failed to build inventory report", h.logger)
		return
	}

	rows, err := h.service.Inventory(r.Context(), outOfStock)
	if err != nil {
		writeServiceError(w, err, "failed to build inventory report", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, rows, h.logger)
}

// DriverOrders handles GET /api/reports/drivers/{driverId}/orders?page.
func (h *ReportHandler) DriverOrders(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, err, "failed to build driver report", h.logger)
		return
	}

	report, err := h.service.DriverOrders(r.Context(), chi.URLParam(r, "driverId"), page)
	if err != nil {
		writeServiceError(w, err, "failed to build driver report", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report, h.logger)
}

// reportWindow reads optional from/to dates. "to" is inclusive, so the
// returned upper bound is the start of the following day.
func reportWindow(r *http.Request) (time.Time, time.Time, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func queryDate(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(reportDateLayout, raw)
	if err != nil {
		return time.Time{}, model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("%s must be a date like 2006-01-02", name))
	}
	return t, nil
}
