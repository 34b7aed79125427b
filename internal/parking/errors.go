package parking

import "errors"

var (
	ErrUnsupportedVehicleType = errors.New("vehicle type not supported at this station")

	ErrEVNotAvailable = errors.New("EV charger not available")

	ErrInvalidInterval = errors.New("end time precedes start time")
)
