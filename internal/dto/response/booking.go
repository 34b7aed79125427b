package response

import (
	"time"

	"parking-booking/internal/data/entity"
)

type PreviewPriceResponse struct {
	StationID     string             `json:"station_id"`
	StationName   string             `json:"station_name"`
	VehicleType   entity.VehicleType `json:"vehicle_type"`
	EV            bool               `json:"ev"`
	RatePerHour   float64            `json:"rate_per_hour"`
	EVRatePerHour float64            `json:"ev_rate_per_hour"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	StationID     string               `json:"station_id"`
	VehicleType   entity.VehicleType   `json:"vehicle_type"`
	VehicleNumber string               `json:"vehicle_number"`
	SlotNumber    *int                 `json:"slot_number,omitempty"`
	EV            bool                 `json:"ev"`
	StartTime     time.Time            `json:"start_time"`
	EndTime       *time.Time           `json:"end_time,omitempty"`
	RatePerHour   float64              `json:"rate_per_hour"`
	EVRatePerHour float64              `json:"ev_rate_per_hour"`
	TotalHours    *int64               `json:"total_hours,omitempty"`
	TotalAmount   *float64             `json:"total_amount,omitempty"`
	Status        entity.BookingStatus `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
}

type BookingHistoryResponse struct {
	BookingResponse
	StationName  string `json:"station_name"`
	StationPlace string `json:"station_place"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		StationID:     b.StationID.String(),
		VehicleType:   b.VehicleType,
		VehicleNumber: b.VehicleNumber,
		SlotNumber:    b.SlotNumber,
		EV:            b.EV,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		RatePerHour:   b.RatePerHour,
		EVRatePerHour: b.EVRatePerHour,
		TotalHours:    b.TotalHours,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}

func HistoryToResponse(h *entity.BookingHistory) BookingHistoryResponse {
	return BookingHistoryResponse{
		BookingResponse: BookingToResponse(&h.Booking),
		StationName:     h.StationName,
		StationPlace:    h.StationPlace,
	}
}
