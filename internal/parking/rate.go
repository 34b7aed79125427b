package parking

import "parking-booking/internal/data/entity"

// Rate is the hourly price pair captured on a booking at start.
type Rate struct {
	PerHour   float64
	EVPerHour float64
}

// RateFor looks up what a vehicle type pays at a station. EVPerHour is zero
// unless ev is requested.
func RateFor(station *entity.Station, vehicleType entity.VehicleType, ev bool) (Rate, error) {
	cfg, ok := station.ConfigFor(vehicleType)
	if !ok || !cfg.Enabled {
		return Rate{}, ErrUnsupportedVehicleType
	}

	rate := Rate{PerHour: cfg.RatePerHour}
	if ev {
		if !cfg.EVEnabled {
			return Rate{}, ErrEVNotAvailable
		}
		rate.EVPerHour = cfg.EVRatePerHour
	}

	return rate, nil
}
