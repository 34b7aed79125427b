package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, auth func(http.Handler) http.Handler) {
	// public
	r.Post("/api/register", authHandler.Register)
	r.Post("/api/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/api/me", authHandler.Me)
		r.Post("/api/logout", authHandler.Logout)
	})
}
