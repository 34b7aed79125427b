package usecase

import (
	"parking-booking/internal/data/repository"
	"parking-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Station StationService
	Booking BookingService
}

func NewService(
	repo *repository.Repository,
	tokens *utils.TokenService,
	cache ActiveBookingStore,
	events BookingEvents,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:    NewAuthService(repo, tokens, log),
		User:    NewUserService(repo.User, log),
		Station: NewStationService(repo.Station, log),
		Booking: NewBookingService(repo, cache, events, log),
	}
}
