package wire

import (
	"net/http"

	"parking-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth, admin func(http.Handler) http.Handler) {
	r.With(auth, admin).Get("/api/admin/users", userHandler.GetAllUsers)
}
