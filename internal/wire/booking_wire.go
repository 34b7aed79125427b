package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/user/stations/available", bookingHandler.AvailableStations)

		r.Post("/api/bookings/preview", bookingHandler.PreviewPrice)
		r.Post("/api/bookings/start", bookingHandler.StartBooking)
		r.Post("/api/bookings/stop/{id}", bookingHandler.StopBooking)
		r.Get("/api/bookings/history", bookingHandler.History)
		r.Get("/api/bookings/active", bookingHandler.Active)
	})
}
