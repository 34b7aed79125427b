package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireStation(r chi.Router, stationHandler *adaptor.StationHandler, auth, admin func(http.Handler) http.Handler) {
	r.Route("/api/admin/stations", func(r chi.Router) {
		r.Use(auth)
		r.Use(admin)

		r.Get("/", stationHandler.ListStations)
		r.Post("/", stationHandler.CreateStation)
		r.Put("/{id}", stationHandler.UpdateStation)
		r.Delete("/{id}", stationHandler.DeleteStation)
	})
}
