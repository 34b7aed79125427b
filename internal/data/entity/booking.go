package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// Booking is append-only: created ACTIVE, finalized once on stop.
// EndTime, TotalHours and TotalAmount are nil until Status is COMPLETED.
type Booking struct {
	Record
	UserID        uuid.UUID     `db:"user_id"`
	StationID     uuid.UUID     `db:"station_id"`
	VehicleType   VehicleType   `db:"vehicle_type"`
	VehicleNumber string        `db:"vehicle_number"`
	SlotNumber    *int          `db:"slot_number"`
	EV            bool          `db:"ev"`
	StartTime     time.Time     `db:"start_time"`
	EndTime       *time.Time    `db:"end_time"`
	RatePerHour   float64       `db:"rate_per_hour"`
	EVRatePerHour float64       `db:"ev_rate_per_hour"`
	TotalHours    *int64        `db:"total_hours"`
	TotalAmount   *float64      `db:"total_amount"`
	Status        BookingStatus `db:"status"`
}

func (b *Booking) IsActive() bool {
	return b.Status == BookingStatusActive
}

// BookingHistory is a booking joined with the station it references.
type BookingHistory struct {
	Booking
	StationName  string `db:"station_name"`
	StationPlace string `db:"station_place"`
}
