package adaptor

import (
	"net/http"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// AvailableStations handles GET /api/user/stations/available
func (h *BookingHandler) AvailableStations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stations, err := h.service.AvailableStations(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get available stations")
		return
	}

	utils.ResponseSuccess(w, "success", stations)
}

// PreviewPrice handles POST /api/bookings/preview
func (h *BookingHandler) PreviewPrice(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.PreviewPriceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	preview, err := h.service.PreviewPrice(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "preview price")
		return
	}

	utils.ResponseSuccess(w, "success", preview)
}

// StartBooking handles POST /api/bookings/start
func (h *BookingHandler) StartBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.StartBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.StartBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "start booking")
		return
	}

	utils.ResponseCreated(w, "Booking started", booking)
}

// StopBooking handles POST /api/bookings/stop/{id}
func (h *BookingHandler) StopBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	bookingID, ok := pathID(w, r, "booking")
	if !ok {
		return
	}

	booking, err := h.service.StopBooking(r.Context(), userID, bookingID)
	if err != nil {
		handleServiceError(w, h.log, err, "stop booking")
		return
	}

	utils.ResponseSuccess(w, "Booking completed", booking)
}

// History handles GET /api/bookings/history
func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	history, err := h.service.ListHistory(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list booking history")
		return
	}

	utils.ResponseSuccess(w, "success", history)
}

// Active handles GET /api/bookings/active
func (h *BookingHandler) Active(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	booking, err := h.service.GetActiveBooking(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get active booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}
