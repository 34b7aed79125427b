package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockBookingService struct {
	usecase.BookingService

	start func(ctx context.Context, userID uuid.UUID, req *request.StartBookingRequest) (*response.BookingResponse, error)
	stop  func(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)
}

func (m *mockBookingService) StartBooking(ctx context.Context, userID uuid.UUID, req *request.StartBookingRequest) (*response.BookingResponse, error) {
	return m.start(ctx, userID, req)
}

func (m *mockBookingService) StopBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	return m.stop(ctx, userID, bookingID)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  utils.ErrorBody `json:"errors"`
}

func serve(t *testing.T, svc usecase.BookingService, method, path, body string, userID uuid.UUID) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	h := NewBookingHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/bookings/start", h.StartBooking)
	r.Post("/api/bookings/stop/{id}", h.StopBooking)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if userID != uuid.Nil {
		req = req.WithContext(utils.SetUserContext(req.Context(), userID, "user"))
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func TestStartBooking_Handler(t *testing.T) {
	userID := uuid.New()
	stationID := uuid.NewString()

	tests := []struct {
		name       string
		body       string
		user       uuid.UUID
		err        error
		wantStatus int
		wantCode   string
		wantReason string
	}{
		{"created", `{"station_id":"` + stationID + `","ev":true}`, userID, nil, http.StatusCreated, "", ""},
		{"slots full", `{"station_id":"` + stationID + `"}`, userID, usecase.ErrSlotsFull, http.StatusConflict, "CONFLICT", "SLOTS_FULL"},
		{"already active", `{"station_id":"` + stationID + `"}`, userID, usecase.ErrAlreadyHasActiveBooking, http.StatusConflict, "CONFLICT", "ALREADY_HAS_ACTIVE_BOOKING"},
		{"station missing", `{"station_id":"` + stationID + `"}`, userID, usecase.ErrStationNotFound, http.StatusNotFound, "NOT_FOUND", "STATION_NOT_FOUND"},
		{"ev not offered", `{"station_id":"` + stationID + `","ev":true}`, userID, usecase.ErrEVNotAvailable, http.StatusUnprocessableEntity, "POLICY_VIOLATION", "EV_NOT_AVAILABLE"},
		{"internal", `{"station_id":"` + stationID + `"}`, userID, errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"malformed body", `{"station_id":`, userID, nil, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"unknown field", `{"station":"x"}`, userID, nil, http.StatusBadRequest, "VALIDATION_ERROR", ""},
		{"anonymous", `{}`, uuid.Nil, nil, http.StatusUnauthorized, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{start: func(_ context.Context, got uuid.UUID, req *request.StartBookingRequest) (*response.BookingResponse, error) {
				if got != userID {
					t.Errorf("user = %s, want %s", got, userID)
				}
				if tt.err != nil {
					return nil, tt.err
				}
				return &response.BookingResponse{ID: uuid.NewString(), StationID: req.StationID, EV: req.EV, Status: "ACTIVE"}, nil
			}}

			rec, env := serve(t, svc, http.MethodPost, "/api/bookings/start", tt.body, tt.user)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Errors.Code != tt.wantCode || env.Errors.Reason != tt.wantReason {
				t.Errorf("errors = %+v, want %s/%s", env.Errors, tt.wantCode, tt.wantReason)
			}
			if tt.wantCode == "INTERNAL_ERROR" && strings.Contains(rec.Body.String(), "pool exhausted") {
				t.Errorf("internal cause leaked to the client")
			}
		})
	}
}

func TestStopBooking_Handler(t *testing.T) {
	userID, bookingID := uuid.New(), uuid.New()
	svc := &mockBookingService{stop: func(_ context.Context, u, b uuid.UUID) (*response.BookingResponse, error) {
		if u != userID || b != bookingID {
			return nil, usecase.ErrNoActiveBooking
		}
		hours, amount := int64(2), 20.0
		return &response.BookingResponse{ID: b.String(), Status: "COMPLETED", TotalHours: &hours, TotalAmount: &amount}, nil
	}}

	rec, env := serve(t, svc, http.MethodPost, "/api/bookings/stop/"+bookingID.String(), "", userID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var booking response.BookingResponse
	if err := json.Unmarshal(env.Data, &booking); err != nil {
		t.Fatalf("decode booking: %v", err)
	}
	if *booking.TotalHours != 2 || *booking.TotalAmount != 20 {
		t.Errorf("unexpected totals %+v", booking)
	}

	rec, env = serve(t, svc, http.MethodPost, "/api/bookings/stop/"+uuid.NewString(), "", userID)
	if rec.Code != http.StatusNotFound || env.Errors.Reason != "NO_ACTIVE_BOOKING" {
		t.Errorf("status = %d, errors = %+v", rec.Code, env.Errors)
	}

	rec, env = serve(t, svc, http.MethodPost, "/api/bookings/stop/not-a-uuid", "", userID)
	if rec.Code != http.StatusBadRequest || env.Errors.Code != "VALIDATION_ERROR" {
		t.Errorf("status = %d, errors = %+v", rec.Code, env.Errors)
	}
}
