package parking

import "parking-booking/internal/data/entity"

type Availability struct {
	TotalSlots      int
	AvailableSlots  int
	BookingPossible bool
}

// Resolve derives availability from configured slots and the current number
// of ACTIVE bookings. It never fails: a disabled or unknown vehicle type has
// zero slots, and over-booking clamps to zero.
func Resolve(station *entity.Station, vehicleType entity.VehicleType, activeCount int) Availability {
	total := 0
	if cfg, ok := station.ConfigFor(vehicleType); ok && cfg.Enabled && cfg.Slots > 0 {
		total = cfg.Slots
	}

	available := max(total-activeCount, 0)

	return Availability{
		TotalSlots:      total,
		AvailableSlots:  available,
		BookingPossible: available > 0,
	}
}
