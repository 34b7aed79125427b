package usecase

import (
	"context"
	"errors"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	"parking-booking/internal/parking"
	apperrors "parking-booking/pkg/errors"
	"parking-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActiveBookingStore caches a user's ACTIVE booking. Get returns nil, nil
// on a miss. Delete marks the booking completed, and a later Set for that
// same booking must be ignored.
type ActiveBookingStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*entity.Booking, error)
	Set(ctx context.Context, booking *entity.Booking) error
	Delete(ctx context.Context, booking *entity.Booking) error
}

// BookingEvents receives lifecycle notifications after commit.
type BookingEvents interface {
	BookingStarted(ctx context.Context, booking *entity.Booking) error
	BookingCompleted(ctx context.Context, booking *entity.Booking) error
}

type BookingService interface {
	PreviewPrice(ctx context.Context, userID uuid.UUID, req *request.PreviewPriceRequest) (*response.PreviewPriceResponse, error)
	StartBooking(ctx context.Context, userID uuid.UUID, req *request.StartBookingRequest) (*response.BookingResponse, error)
	StopBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error)
	ListHistory(ctx context.Context, userID uuid.UUID) ([]response.BookingHistoryResponse, error)
	AvailableStations(ctx context.Context, userID uuid.UUID) (*response.AvailableStationsResponse, error)
	GetActiveBooking(ctx context.Context, userID uuid.UUID) (*response.BookingResponse, error)
}

type bookingService struct {
	repo   *repository.Repository
	cache  ActiveBookingStore
	events BookingEvents
	locks  *parking.KeyedMutex
	log    *zap.Logger
	now    func() time.Time
}

func NewBookingService(repo *repository.Repository, cache ActiveBookingStore, events BookingEvents, log *zap.Logger) BookingService {
	return newBookingService(repo, cache, events, log)
}

func newBookingService(repo *repository.Repository, cache ActiveBookingStore, events BookingEvents, log *zap.Logger) *bookingService {
	return &bookingService{
		repo:   repo,
		cache:  cache,
		events: events,
		locks:  parking.NewKeyedMutex(),
		log:    log.With(zap.String("service", "booking")),
		now:    time.Now,
	}
}

func (s *bookingService) loadUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load user", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *bookingService) loadStation(ctx context.Context, rawID string) (*entity.Station, error) {
	stationID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.Validation("Invalid station ID", map[string]any{"station_id": "Must be a valid UUID"})
	}

	station, err := s.repo.Station.FindByID(ctx, stationID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load station", err)
	}
	if station == nil {
		return nil, ErrStationNotFound
	}
	return station, nil
}

func (s *bookingService) PreviewPrice(ctx context.Context, userID uuid.UUID, req *request.PreviewPriceRequest) (*response.PreviewPriceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	station, err := s.loadStation(ctx, req.StationID)
	if err != nil {
		return nil, err
	}

	rate, err := parking.RateFor(station, user.VehicleType, req.EV)
	if err != nil {
		return nil, ruleError(err)
	}

	return &response.PreviewPriceResponse{
		StationID:     station.ID.String(),
		StationName:   station.Name,
		VehicleType:   user.VehicleType,
		EV:            req.EV,
		RatePerHour:   rate.PerHour,
		EVRatePerHour: rate.EVPerHour,
	}, nil
}

// StartBooking checks, in order: the user's active booking, the station,
// the vehicle type, EV, then capacity. The last three are checked again
// against the locked station row inside the insert transaction.
func (s *bookingService) StartBooking(ctx context.Context, userID uuid.UUID, req *request.StartBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.Booking.FindActiveByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to start booking", err)
	}
	if active != nil {
		return nil, ErrAlreadyHasActiveBooking
	}

	station, err := s.loadStation(ctx, req.StationID)
	if err != nil {
		return nil, err
	}

	if _, err := parking.RateFor(station, user.VehicleType, req.EV); err != nil {
		return nil, ruleError(err)
	}

	unlock, err := s.locks.Lock(ctx, station.ID.String()+":"+user.VehicleType.String())
	if err != nil {
		s.log.Warn("Booking start abandoned while waiting for station lock",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
			zap.String("station_id", station.ID.String()))
		return nil, apperrors.Internal("Failed to start booking", err)
	}
	defer unlock()

	booking, err := s.repo.Booking.StartActive(ctx, station.ID, user.VehicleType,
		func(locked *entity.Station, activeCount int) (*entity.Booking, error) {
			rate, err := parking.RateFor(locked, user.VehicleType, req.EV)
			if err != nil {
				return nil, ruleError(err)
			}

			if !parking.Resolve(locked, user.VehicleType, activeCount).BookingPossible {
				return nil, ErrSlotsFull
			}

			now := s.now()
			return &entity.Booking{
				Record: entity.Record{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				UserID:        user.ID,
				StationID:     locked.ID,
				VehicleType:   user.VehicleType,
				VehicleNumber: user.VehicleNumber,
				SlotNumber:    req.SlotNumber,
				EV:            req.EV,
				StartTime:     now,
				RatePerHour:   rate.PerHour,
				EVRatePerHour: rate.EVPerHour,
				Status:        entity.BookingStatusActive,
			}, nil
		})
	if err != nil {
		return nil, s.startError(err, user.ID, station.ID)
	}

	s.log.Info("Booking started",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("station_id", station.ID.String()),
		zap.String("vehicle_type", booking.VehicleType.String()),
		zap.Bool("ev", booking.EV),
		zap.Float64("rate_per_hour", booking.RatePerHour),
	)

	s.afterStart(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) startError(err error, userID, stationID uuid.UUID) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		s.log.Info("Booking start rejected",
			zap.String("reason", appErr.Reason),
			zap.String("user_id", userID.String()),
			zap.String("station_id", stationID.String()))
		return appErr
	case isNotFound(err):
		return ErrStationNotFound
	case errors.Is(err, repository.ErrActiveBookingExists):
		return ErrAlreadyHasActiveBooking
	default:
		s.log.Error("Failed to start booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("station_id", stationID.String()))
		return apperrors.Internal("Failed to start booking", err)
	}
}

// StopBooking bills the snapshotted rates up to now. Only one of two racing
// stops can win; the other sees NoActiveBooking. A local clock behind the
// recorded start time ends the booking at its start.
func (s *bookingService) StopBooking(ctx context.Context, userID, bookingID uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindActiveByIDAndUser(ctx, bookingID, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to stop booking", err)
	}
	if booking == nil {
		return nil, ErrNoActiveBooking
	}

	end := s.now()
	if end.Before(booking.StartTime) {
		s.log.Warn("Stop time precedes start time, clamping",
			zap.String("booking_id", booking.ID.String()),
			zap.Time("start_time", booking.StartTime),
			zap.Time("end_time", end))
		end = booking.StartTime
	}
	bill, err := parking.Calculate(booking.StartTime, end, booking.RatePerHour, booking.EVRatePerHour, booking.EV)
	if err != nil {
		s.log.Error("Failed to bill booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.Time("start_time", booking.StartTime),
			zap.Time("end_time", end))
		return nil, apperrors.Internal("Failed to bill booking", err)
	}

	booking.EndTime = &end
	booking.TotalHours = &bill.Hours
	booking.TotalAmount = &bill.TotalAmount
	booking.Status = entity.BookingStatusCompleted
	booking.UpdatedAt = end

	if err := s.repo.Booking.Complete(ctx, booking); err != nil {
		if isNotFound(err) {
			return nil, ErrNoActiveBooking
		}
		return nil, apperrors.Internal("Failed to stop booking", err)
	}

	s.log.Info("Booking completed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int64("total_hours", bill.Hours),
		zap.Float64("total_amount", bill.TotalAmount),
	)

	s.afterStop(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListHistory(ctx context.Context, userID uuid.UUID) ([]response.BookingHistoryResponse, error) {
	history, err := s.repo.Booking.FindHistoryByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to get booking history", err)
	}

	resp := make([]response.BookingHistoryResponse, len(history))
	for i, h := range history {
		resp[i] = response.HistoryToResponse(h)
	}
	return resp, nil
}

func (s *bookingService) AvailableStations(ctx context.Context, userID uuid.UUID) (*response.AvailableStationsResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stations, err := s.repo.Station.FindEnabledFor(ctx, user.VehicleType)
	if err != nil {
		return nil, apperrors.Internal("Failed to get stations", err)
	}

	counts, err := s.repo.Booking.CountActiveByStation(ctx, user.VehicleType)
	if err != nil {
		return nil, apperrors.Internal("Failed to count active bookings", err)
	}

	result := make([]response.AvailableStation, 0, len(stations))
	for _, station := range stations {
		cfg, _ := station.ConfigFor(user.VehicleType)
		avail := parking.Resolve(station, user.VehicleType, counts[station.ID])

		item := response.AvailableStation{
			StationID:       station.ID.String(),
			Name:            station.Name,
			Place:           station.Place,
			Description:     station.Description,
			VehicleType:     user.VehicleType,
			TotalSlots:      avail.TotalSlots,
			AvailableSlots:  avail.AvailableSlots,
			Rate:            cfg.RatePerHour,
			EVSupported:     cfg.EVEnabled,
			BookingPossible: avail.BookingPossible,
		}
		if cfg.EVEnabled {
			evRate := cfg.EVRatePerHour
			item.EVRate = &evRate
		}
		result = append(result, item)
	}

	return &response.AvailableStationsResponse{
		User: response.AvailableUser{
			ID:          user.ID.String(),
			Phone:       user.Phone,
			VehicleType: user.VehicleType,
		},
		Stations: result,
	}, nil
}

// GetActiveBooking prefers the cache and falls back to the database. Misses
// are not written back; only StartBooking fills the cache.
func (s *bookingService) GetActiveBooking(ctx context.Context, userID uuid.UUID) (*response.BookingResponse, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.Warn("Active booking cache read failed", zap.Error(err), zap.String("user_id", userID.String()))
		}
		if cached != nil && cached.IsActive() {
			resp := response.BookingToResponse(cached)
			return &resp, nil
		}
	}

	booking, err := s.repo.Booking.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to get active booking", err)
	}
	if booking == nil {
		return nil, ErrNoActiveBooking
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) afterStart(ctx context.Context, booking *entity.Booking) {
	s.cacheSet(ctx, booking)

	if s.events != nil {
		if err := s.events.BookingStarted(ctx, booking); err != nil {
			s.log.Warn("Failed to publish booking started", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
	}
}

func (s *bookingService) afterStop(ctx context.Context, booking *entity.Booking) {
	if s.cache != nil {
		if err := s.cache.Delete(ctx, booking); err != nil {
			s.log.Warn("Failed to evict active booking", zap.Error(err), zap.String("user_id", booking.UserID.String()))
		}
	}

	if s.events != nil {
		if err := s.events.BookingCompleted(ctx, booking); err != nil {
			s.log.Warn("Failed to publish booking completed", zap.Error(err), zap.String("booking_id", booking.ID.String()))
		}
	}
}

func (s *bookingService) cacheSet(ctx context.Context, booking *entity.Booking) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, booking); err != nil {
		s.log.Warn("Failed to cache active booking", zap.Error(err), zap.String("user_id", booking.UserID.String()))
	}
}
