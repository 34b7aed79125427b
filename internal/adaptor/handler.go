package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"parking-booking/internal/usecase"
	apperrors "parking-booking/pkg/errors"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Station *StationHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, service.User, log),
		User:    NewUserHandler(service.User, log),
		Station: NewStationHandler(service.Station, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// decodeJSON reads the body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseError(w, apperrors.Validation("Invalid request body", map[string]any{"body": err.Error()}))
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseError(w, apperrors.Validation("Invalid "+name+" ID", map[string]any{"id": "Must be a valid UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// handleServiceError writes err with the status of its kind. Internal causes
// are logged, never sent.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	appErr := apperrors.AsAppError(err)

	if appErr.Code == apperrors.CodeInternal {
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseError(w, apperrors.Internal("Internal server error", nil))
		return
	}

	log.Warn(operation+" failed",
		zap.String("code", appErr.Code),
		zap.String("reason", appErr.Reason),
		zap.String("message", appErr.Message))
	utils.ResponseError(w, appErr)
}
