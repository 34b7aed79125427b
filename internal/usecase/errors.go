package usecase

import (
	"errors"

	"parking-booking/internal/data/repository"
	"parking-booking/internal/parking"
	apperrors "parking-booking/pkg/errors"
	"parking-booking/pkg/utils"
)

var (
	ErrAlreadyHasActiveBooking  = apperrors.Conflict("ALREADY_HAS_ACTIVE_BOOKING", "You already have an active booking")
	ErrSlotsFull                = apperrors.Conflict("SLOTS_FULL", "No slots available for your vehicle type")
	ErrStationHasActiveBookings = apperrors.Conflict("STATION_HAS_ACTIVE_BOOKINGS", "Station has active bookings")
	ErrPhoneTaken               = apperrors.Conflict("PHONE_TAKEN", "Phone number already registered")

	ErrStationNotFound = apperrors.NotFound("STATION_NOT_FOUND", "Station not found")
	ErrNoActiveBooking = apperrors.NotFound("NO_ACTIVE_BOOKING", "Active booking not found")
	ErrUserNotFound    = apperrors.NotFound("USER_NOT_FOUND", "User not found")

	ErrUnsupportedVehicleType = apperrors.Policy("UNSUPPORTED_VEHICLE_TYPE", "Station does not support your vehicle type")
	ErrEVNotAvailable         = apperrors.Policy("EV_NOT_AVAILABLE", "EV charger not available")

	ErrInvalidCredentials = apperrors.Unauthorized("Invalid phone or password")
)

func validationError(errs map[string]string) error {
	return apperrors.Validation("Validation failed", utils.ToDetails(errs))
}

// ruleError maps pure rate policy errors onto their caller facing kind.
func ruleError(err error) error {
	switch {
	case errors.Is(err, parking.ErrUnsupportedVehicleType):
		return ErrUnsupportedVehicleType
	case errors.Is(err, parking.ErrEVNotAvailable):
		return ErrEVNotAvailable
	}
	return err
}

// isNotFound reports repository misses on writes.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
