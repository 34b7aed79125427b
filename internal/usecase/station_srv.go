package usecase

import (
	"context"
	"errors"
	"time"

	"parking-booking/internal/data/entity"
	"parking-booking/internal/data/repository"
	"parking-booking/internal/dto/request"
	"parking-booking/internal/dto/response"
	apperrors "parking-booking/pkg/errors"
	"parking-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StationService interface {
	CreateStation(ctx context.Context, adminID uuid.UUID, req *request.StationRequest) (*response.StationResponse, error)
	UpdateStation(ctx context.Context, id uuid.UUID, req *request.StationRequest) (*response.StationResponse, error)
	DeleteStation(ctx context.Context, id uuid.UUID) error
	ListStations(ctx context.Context, req *request.StationListRequest) (*response.PaginatedResponse[response.StationResponse], error)
}

type stationService struct {
	stationRepo repository.StationRepository
	log         *zap.Logger
	now         func() time.Time
}

func NewStationService(stationRepo repository.StationRepository, log *zap.Logger) StationService {
	return &stationService{
		stationRepo: stationRepo,
		log:         log.With(zap.String("service", "station")),
		now:         time.Now,
	}
}

// slotConfigFrom drops EV when no EV rate was given.
func slotConfigFrom(req request.SlotConfigRequest) entity.SlotConfig {
	cfg := entity.SlotConfig{
		Enabled:     req.Enabled,
		Slots:       req.Slots,
		RatePerHour: req.RatePerHour,
	}
	if req.EVEnabled && req.EVRatePerHour != nil {
		cfg.EVEnabled = true
		cfg.EVRatePerHour = *req.EVRatePerHour
	}
	return cfg
}

func applyStationRequest(station *entity.Station, req *request.StationRequest) {
	station.Name = req.Name
	station.Place = req.Place
	station.Description = req.Description
	station.TwoWheeler = slotConfigFrom(req.TwoWheeler)
	station.FourWheeler = slotConfigFrom(req.FourWheeler)
}

func (s *stationService) CreateStation(ctx context.Context, adminID uuid.UUID, req *request.StationRequest) (*response.StationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	now := s.now()
	station := &entity.Station{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CreatedBy: &adminID,
	}
	applyStationRequest(station, req)

	if err := s.stationRepo.Create(ctx, station); err != nil {
		return nil, apperrors.Internal("Failed to create station", err)
	}

	s.log.Info("Station created",
		zap.String("station_id", station.ID.String()),
		zap.String("name", station.Name),
		zap.String("created_by", adminID.String()))

	resp := response.StationToResponse(station)
	return &resp, nil
}

// UpdateStation replaces the configuration. Bookings already started keep
// the rates they captured.
func (s *stationService) UpdateStation(ctx context.Context, id uuid.UUID, req *request.StationRequest) (*response.StationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	station, err := s.stationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to update station", err)
	}
	if station == nil {
		return nil, ErrStationNotFound
	}

	applyStationRequest(station, req)
	station.UpdatedAt = s.now()

	if err := s.stationRepo.Update(ctx, station); err != nil {
		if isNotFound(err) {
			return nil, ErrStationNotFound
		}
		return nil, apperrors.Internal("Failed to update station", err)
	}

	s.log.Info("Station updated", zap.String("station_id", id.String()))

	resp := response.StationToResponse(station)
	return &resp, nil
}

func (s *stationService) DeleteStation(ctx context.Context, id uuid.UUID) error {
	err := s.stationRepo.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case isNotFound(err):
		return ErrStationNotFound
	case errors.Is(err, repository.ErrStationHasActiveBookings):
		return ErrStationHasActiveBookings
	default:
		return apperrors.Internal("Failed to delete station", err)
	}
}

func (s *stationService) ListStations(ctx context.Context, req *request.StationListRequest) (*response.PaginatedResponse[response.StationResponse], error) {
	req.Normalize()

	stations, err := s.stationRepo.FindAll(ctx, req.Limit(), req.Offset(), req.Place)
	if err != nil {
		return nil, apperrors.Internal("Failed to get stations", err)
	}

	total, err := s.stationRepo.CountAll(ctx, req.Place)
	if err != nil {
		return nil, apperrors.Internal("Failed to count stations", err)
	}

	data := make([]response.StationResponse, len(stations))
	for i, station := range stations {
		data[i] = response.StationToResponse(station)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}
