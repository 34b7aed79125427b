package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StationRepository interface {
	Create(ctx context.Context, station *entity.Station) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error)
	FindAll(ctx context.Context, limit, offset int, placeFilter *string) ([]*entity.Station, error)
	CountAll(ctx context.Context, placeFilter *string) (int64, error)
	FindEnabledFor(ctx context.Context, vehicleType entity.VehicleType) ([]*entity.Station, error)
	Update(ctx context.Context, station *entity.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type stationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewStationRepository(db database.PgxIface, log *zap.Logger) StationRepository {
	return &stationRepository{
		db:  db,
		log: log.With(zap.String("repository", "station")),
	}
}

const stationColumns = `
	id, name, place, description,
	two_w_enabled, two_w_slots, two_w_rate_per_hour, two_w_ev_enabled, two_w_ev_rate_per_hour,
	four_w_enabled, four_w_slots, four_w_rate_per_hour, four_w_ev_enabled, four_w_ev_rate_per_hour,
	created_by, created_at, updated_at, deleted_at`

func scanStation(row pgx.Row) (*entity.Station, error) {
	var s entity.Station
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Place,
		&s.Description,
		&s.TwoWheeler.Enabled,
		&s.TwoWheeler.Slots,
		&s.TwoWheeler.RatePerHour,
		&s.TwoWheeler.EVEnabled,
		&s.TwoWheeler.EVRatePerHour,
		&s.FourWheeler.Enabled,
		&s.FourWheeler.Slots,
		&s.FourWheeler.RatePerHour,
		&s.FourWheeler.EVEnabled,
		&s.FourWheeler.EVRatePerHour,
		&s.CreatedBy,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStations(rows pgx.Rows) ([]*entity.Station, error) {
	defer rows.Close()

	var stations []*entity.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan station row: %w", err)
		}
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station rows: %w", err)
	}

	return stations, nil
}

// slotArgs flattens one category in column order.
func slotArgs(c entity.SlotConfig) []any {
	return []any{c.Enabled, c.Slots, c.RatePerHour, c.EVEnabled, c.EVRatePerHour}
}

func (r *stationRepository) Create(ctx context.Context, station *entity.Station) error {
	query := `
		INSERT INTO stations (id, name, place, description,
		    two_w_enabled, two_w_slots, two_w_rate_per_hour, two_w_ev_enabled, two_w_ev_rate_per_hour,
		    four_w_enabled, four_w_slots, four_w_rate_per_hour, four_w_ev_enabled, four_w_ev_rate_per_hour,
		    created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	args := []any{station.ID, station.Name, station.Place, station.Description}
	args = append(args, slotArgs(station.TwoWheeler)...)
	args = append(args, slotArgs(station.FourWheeler)...)
	args = append(args, station.CreatedBy, station.CreatedAt, station.UpdatedAt)

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		r.log.Error("Failed to create station",
			zap.Error(err),
			zap.String("name", station.Name),
			zap.String("place", station.Place),
		)
		return fmt.Errorf("create station %s: %w", station.Name, err)
	}

	return nil
}

func (r *stationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1 AND deleted_at IS NULL`

	station, err := scanStation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find station by ID",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return nil, fmt.Errorf("find station by ID %s: %w", id.String(), err)
	}

	return station, nil
}

func (r *stationRepository) FindAll(ctx context.Context, limit, offset int, placeFilter *string) ([]*entity.Station, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + stationColumns + ` FROM stations WHERE deleted_at IS NULL`)

	args := []any{}
	argCount := 1

	if placeFilter != nil && *placeFilter != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND place ILIKE $%d", argCount))
		args = append(args, "%"+*placeFilter+"%")
		argCount++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all stations",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Stringp("place_filter", placeFilter),
		)
		return nil, fmt.Errorf("find all stations limit %d offset %d: %w", limit, offset, err)
	}

	stations, err := collectStations(rows)
	if err != nil {
		r.log.Error("Failed to read station rows", zap.Error(err))
		return nil, err
	}

	return stations, nil
}

func (r *stationRepository) CountAll(ctx context.Context, placeFilter *string) (int64, error) {
	query := `SELECT COUNT(*) FROM stations WHERE deleted_at IS NULL`
	args := []any{}

	if placeFilter != nil && *placeFilter != "" {
		query += " AND place ILIKE $1"
		args = append(args, "%"+*placeFilter+"%")
	}

	var total int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count stations",
			zap.Error(err),
			zap.Stringp("place_filter", placeFilter),
		)
		return 0, fmt.Errorf("count all stations: %w", err)
	}

	return total, nil
}

// FindEnabledFor lists live stations offering vehicleType, by name.
func (r *stationRepository) FindEnabledFor(ctx context.Context, vehicleType entity.VehicleType) ([]*entity.Station, error) {
	var column string
	switch vehicleType {
	case entity.VehicleTwoWheeler:
		column = "two_w_enabled"
	case entity.VehicleFourWheeler:
		column = "four_w_enabled"
	default:
		return nil, nil
	}

	query := `SELECT ` + stationColumns + ` FROM stations WHERE deleted_at IS NULL AND ` + column + ` ORDER BY name, id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find stations for vehicle type",
			zap.Error(err),
			zap.String("vehicle_type", vehicleType.String()),
		)
		return nil, fmt.Errorf("find stations for %s: %w", vehicleType, err)
	}

	stations, err := collectStations(rows)
	if err != nil {
		r.log.Error("Failed to read station rows", zap.Error(err))
		return nil, err
	}

	return stations, nil
}

// Update replaces the station's configuration. Bookings keep the rates they
// captured at start.
func (r *stationRepository) Update(ctx context.Context, station *entity.Station) error {
	query := `
		UPDATE stations
		SET name = $2, place = $3, description = $4,
		    two_w_enabled = $5, two_w_slots = $6, two_w_rate_per_hour = $7,
		    two_w_ev_enabled = $8, two_w_ev_rate_per_hour = $9,
		    four_w_enabled = $10, four_w_slots = $11, four_w_rate_per_hour = $12,
		    four_w_ev_enabled = $13, four_w_ev_rate_per_hour = $14,
		    updated_at = $15
		WHERE id = $1 AND deleted_at IS NULL
	`

	args := []any{station.ID, station.Name, station.Place, station.Description}
	args = append(args, slotArgs(station.TwoWheeler)...)
	args = append(args, slotArgs(station.FourWheeler)...)
	args = append(args, station.UpdatedAt)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to update station",
			zap.Error(err),
			zap.String("station_id", station.ID.String()),
		)
		return fmt.Errorf("update station %s: %w", station.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete soft deletes a station. It takes the same row lock as a booking
// start, so no booking can slip in between the active check and the delete.
func (r *stationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx,
			`SELECT id FROM stations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock station: %w", err)
		}

		var active int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM bookings WHERE station_id = $1 AND status = 'ACTIVE'`, id,
		).Scan(&active); err != nil {
			return fmt.Errorf("count active bookings: %w", err)
		}
		if active > 0 {
			return ErrStationHasActiveBookings
		}

		if _, err := tx.Exec(ctx,
			`UPDATE stations SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1`, id,
		); err != nil {
			return fmt.Errorf("soft delete station: %w", err)
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrStationHasActiveBookings) {
		r.log.Error("Failed to delete station",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return fmt.Errorf("delete station %s: %w", id.String(), err)
	}
	if err != nil {
		return err
	}

	r.log.Info("Station deleted", zap.String("station_id", id.String()))
	return nil
}
