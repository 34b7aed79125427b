package adaptor

import (
	"net/http"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type StationHandler struct {
	service usecase.StationService
	log     *zap.Logger
}

func NewStationHandler(service usecase.StationService, log *zap.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		log:     log.With(zap.String("handler", "station")),
	}
}

// ListStations handles GET /api/admin/stations
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	req := &request.StationListRequest{PaginatedRequest: paginationFrom(r)}
	if place := r.URL.Query().Get("place"); place != "" {
		req.Place = &place
	}

	stations, err := h.service.ListStations(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list stations")
		return
	}

	utils.ResponseSuccess(w, "success", stations)
}

// CreateStation handles POST /api/admin/stations
func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.StationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.service.CreateStation(r.Context(), adminID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create station")
		return
	}

	utils.ResponseCreated(w, "Station created successfully", station)
}

// UpdateStation handles PUT /api/admin/stations/{id}
func (h *StationHandler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "station")
	if !ok {
		return
	}

	var req request.StationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.service.UpdateStation(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update station")
		return
	}

	utils.ResponseSuccess(w, "Station updated successfully", station)
}

// DeleteStation handles DELETE /api/admin/stations/{id}
func (h *StationHandler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "station")
	if !ok {
		return
	}

	if err := h.service.DeleteStation(r.Context(), id); err != nil {
		handleServiceError(w, h.log, err, "delete station")
		return
	}

	utils.ResponseSuccess(w, "Station deleted successfully", nil)
}
