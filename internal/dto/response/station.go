package response

import (
	"time"

	"parking-booking/internal/data/entity"
)

type SlotConfigResponse struct {
	Enabled       bool     `json:"enabled"`
	Slots         int      `json:"slots"`
	RatePerHour   float64  `json:"rate_per_hour"`
	EVEnabled     bool     `json:"ev_enabled"`
	EVRatePerHour *float64 `json:"ev_rate_per_hour"`
}

type StationResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Place       string             `json:"place"`
	Description *string            `json:"description,omitempty"`
	TwoWheeler  SlotConfigResponse `json:"two_w"`
	FourWheeler SlotConfigResponse `json:"four_w"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func slotToResponse(c entity.SlotConfig) SlotConfigResponse {
	resp := SlotConfigResponse{
		Enabled:     c.Enabled,
		Slots:       c.Slots,
		RatePerHour: c.RatePerHour,
		EVEnabled:   c.EVEnabled,
	}
	if c.EVEnabled {
		rate := c.EVRatePerHour
		resp.EVRatePerHour = &rate
	}
	return resp
}

func StationToResponse(s *entity.Station) StationResponse {
	return StationResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Place:       s.Place,
		Description: s.Description,
		TwoWheeler:  slotToResponse(s.TwoWheeler),
		FourWheeler: slotToResponse(s.FourWheeler),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type AvailableUser struct {
	ID          string             `json:"id"`
	Phone       string             `json:"phone"`
	VehicleType entity.VehicleType `json:"vehicle_type"`
}

type AvailableStation struct {
	StationID       string             `json:"station_id"`
	Name            string             `json:"name"`
	Place           string             `json:"place"`
	Description     *string            `json:"description"`
	VehicleType     entity.VehicleType `json:"vehicle_type"`
	TotalSlots      int                `json:"total_slots"`
	AvailableSlots  int                `json:"available_slots"`
	Rate            float64            `json:"rate"`
	EVSupported     bool               `json:"ev_supported"`
	EVRate          *float64           `json:"ev_rate"`
	BookingPossible bool               `json:"booking_possible"`
}

type AvailableStationsResponse struct {
	User     AvailableUser      `json:"user"`
	Stations []AvailableStation `json:"stations"`
}
