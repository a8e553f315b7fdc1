package handler

import (
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, "failed to create order", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order, h.logger)
}

// List handles GET /api/orders?status&page&pageSize.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}
	pageSize, err := queryInt(r, "pageSize", 0)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	status := model.OrderStatus(strings.TrimSpace(r.URL.Query().Get("status")))

	orders, err := h.service.List(r.Context(), status, page, pageSize)
	if err != nil {
		writeServiceError(w, err, "failed to list orders", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders, h.logger)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve order", h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order, h.logger)
}

// Ship handles POST /api/orders/{id}/ship.
func (h *OrderHandler) Ship(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.ShipRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to ship order", h.logger)
		return
	}

	order, err := h.service.Ship(r.Context(), orderID, req.DriverID)
	h.writeOrder(w, order, err, "failed to ship order")
}

// StartTrip handles POST /api/orders/{id}/start-trip.
func (h *OrderHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.StartTrip(r.Context(), orderID)
	h.writeOrder(w, order, err, "failed to start trip")
}

// Deliver handles POST /api/orders/{id}/deliver.
func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Deliver(r.Context(), orderID)
	h.writeOrder(w, order, err, "failed to deliver order")
}

// Cancel handles POST /api/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.CancelRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeServiceError(w, err, "failed to cancel order", h.logger)
		return
	}

	order, err := h.service.Cancel(r.Context(), orderID, req.Reason)
	h.writeOrder(w, order, err, "failed to cancel order")
}

// Track handles GET /api/orders/{id}/track.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	info, err := h.service.Track(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to track order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, info, h.logger)
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return uuid.Nil, false
	}
	return orderID, true
}

func (h *OrderHandler) writeOrder(w http.ResponseWriter, order *model.Order, err error, fallback string) {
	if err != nil {
		writeServiceError(w, err, fallback, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, order, h.logger)
}
