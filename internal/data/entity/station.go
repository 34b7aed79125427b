package entity

import "github.com/google/uuid"

// SlotConfig is one vehicle category's offer at a station.
type SlotConfig struct {
	Enabled       bool    `db:"enabled"`
	Slots         int     `db:"slots"`
	RatePerHour   float64 `db:"rate_per_hour"`
	EVEnabled     bool    `db:"ev_enabled"`
	EVRatePerHour float64 `db:"ev_rate_per_hour"`
}

type Station struct {
	Base
	Name        string     `db:"name"`
	Place       string     `db:"place"`
	Description *string    `db:"description"`
	TwoWheeler  SlotConfig `db:"two_w"`
	FourWheeler SlotConfig `db:"four_w"`
	CreatedBy   *uuid.UUID `db:"created_by"`
}

// ConfigFor returns the configuration for a vehicle type. ok is false for
// unknown types.
func (s *Station) ConfigFor(v VehicleType) (SlotConfig, bool) {
	switch v {
	case VehicleTwoWheeler:
		return s.TwoWheeler, true
	case VehicleFourWheeler:
		return s.FourWheeler, true
	default:
		return SlotConfig{}, false
	}
}
