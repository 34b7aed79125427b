package repository

import "errors"

var (
	// ErrNotFound is returned by writes that matched no live row.
	ErrNotFound = errors.New("record not found")

	ErrDuplicatePhone = errors.New("phone already registered")

	// ErrActiveBookingExists means the bookings_one_active_per_user index
	// rejected the insert.
	ErrActiveBookingExists = errors.New("user already has an active booking")

	ErrStationHasActiveBookings = errors.New("station has active bookings")
)
