package wire

import (
	"context"
	"net/http"
	"time"

	"parking-booking/internal/adaptor"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/usecase"
	"parking-booking/pkg/middleware"
	"parking-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the infrastructure pieces built in main. Cache and Events are
// optional and must be left nil (not typed nil) when disabled.
type Deps struct {
	Repo   *repository.Repository
	DB     Pinger
	Tokens *utils.TokenService
	Cache  usecase.ActiveBookingStore
	Events usecase.BookingEvents
}

type App struct {
	Router *chi.Mux
}

func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Tokens, deps.Cache, deps.Events, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router: setupRouter(handler, deps, config, logger),
	}
}

func setupRouter(handler *adaptor.Handler, deps Deps, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigin))
	if config.App.RequestTimeout > 0 {
		r.Use(chimw.Timeout(config.App.RequestTimeout))
	}

	auth := middleware.Auth(deps.Tokens, deps.Repo.Session, logger)
	admin := middleware.Admin(deps.Repo.User, logger)

	wireAuth(r, handler.Auth, auth)
	wireUser(r, handler.User, auth, admin)
	wireStation(r, handler.Station, auth, admin)
	wireBooking(r, handler.Booking, auth)

	r.Get("/health", health(deps.DB, logger))

	return r
}

func health(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("DB UNAVAILABLE"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
