package repository

import (
	"context"
	"errors"
	"fmt"

	"parking-booking/internal/data/entity"
	"parking-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// StartFunc builds the booking to insert from the locked station row and
// the number of ACTIVE bookings it currently holds for the vehicle type.
// Returning an error aborts the start with nothing written.
type StartFunc func(station *entity.Station, activeCount int) (*entity.Booking, error)

type BookingRepository interface {
	StartActive(ctx context.Context, stationID uuid.UUID, vehicleType entity.VehicleType, build StartFunc) (*entity.Booking, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Booking, error)
	FindActiveByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Booking, error)
	Complete(ctx context.Context, booking *entity.Booking) error
	CountActiveByStation(ctx context.Context, vehicleType entity.VehicleType) (map[uuid.UUID]int, error)
	FindHistoryByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BookingHistory, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	b.id, b.user_id, b.station_id, b.vehicle_type, b.vehicle_number, b.slot_number, b.ev,
	b.start_time, b.end_time, b.rate_per_hour, b.ev_rate_per_hour, b.total_hours, b.total_amount,
	b.status, b.created_at, b.updated_at`

func bookingDest(b *entity.Booking) []any {
	return []any{
		&b.ID,
		&b.UserID,
		&b.StationID,
		&b.VehicleType,
		&b.VehicleNumber,
		&b.SlotNumber,
		&b.EV,
		&b.StartTime,
		&b.EndTime,
		&b.RatePerHour,
		&b.EVRatePerHour,
		&b.TotalHours,
		&b.TotalAmount,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	}
}

// StartActive runs the capacity check and the insert in one transaction
// holding the station row lock. Concurrent starts on the same station queue
// on that lock, and the bookings_one_active_per_user index rejects a second
// ACTIVE booking for the same user.
func (r *bookingRepository) StartActive(ctx context.Context, stationID uuid.UUID, vehicleType entity.VehicleType, build StartFunc) (*entity.Booking, error) {
	var created *entity.Booking

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		station, err := scanStation(tx.QueryRow(ctx,
			`SELECT `+stationColumns+` FROM stations WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			stationID,
		))
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock station: %w", err)
		}

		var active int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM bookings WHERE station_id = $1 AND vehicle_type = $2 AND status = 'ACTIVE'`,
			stationID, vehicleType,
		).Scan(&active); err != nil {
			return fmt.Errorf("count active bookings: %w", err)
		}

		booking, err := build(station, active)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO bookings (id, user_id, station_id, vehicle_type, vehicle_number, slot_number, ev,
			                      start_time, rate_per_hour, ev_rate_per_hour, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
			booking.ID,
			booking.UserID,
			booking.StationID,
			booking.VehicleType,
			booking.VehicleNumber,
			booking.SlotNumber,
			booking.EV,
			booking.StartTime,
			booking.RatePerHour,
			booking.EVRatePerHour,
			booking.Status,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		if database.IsUniqueViolation(err, "bookings_one_active_per_user") {
			return ErrActiveBookingExists
		}
		if err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		created = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *bookingRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.user_id = $1 AND b.status = 'ACTIVE'`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, userID).Scan(bookingDest(&booking)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active booking for user %s: %w", userID.String(), err)
	}

	return &booking, nil
}

func (r *bookingRepository) FindActiveByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = $1 AND b.user_id = $2 AND b.status = 'ACTIVE'`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id, userID).Scan(bookingDest(&booking)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find active booking %s: %w", id.String(), err)
	}

	return &booking, nil
}

// Complete writes the billing fields only while the row is still ACTIVE, so
// of two racing stops exactly one succeeds and the other gets ErrNotFound.
func (r *bookingRepository) Complete(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET end_time = $3, total_hours = $4, total_amount = $5,
		    status = 'COMPLETED', updated_at = $6
		WHERE id = $1 AND user_id = $2 AND status = 'ACTIVE'
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.EndTime,
		booking.TotalHours,
		booking.TotalAmount,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to complete booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("complete booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CountActiveByStation groups ACTIVE bookings of vehicleType by station.
// Stations without active bookings are absent from the map.
func (r *bookingRepository) CountActiveByStation(ctx context.Context, vehicleType entity.VehicleType) (map[uuid.UUID]int, error) {
	query := `
		SELECT station_id, COUNT(*)
		FROM bookings
		WHERE status = 'ACTIVE' AND vehicle_type = $1
		GROUP BY station_id
	`

	rows, err := r.db.Query(ctx, query, vehicleType)
	if err != nil {
		r.log.Error("Failed to count active bookings",
			zap.Error(err),
			zap.String("vehicle_type", vehicleType.String()),
		)
		return nil, fmt.Errorf("count active bookings for %s: %w", vehicleType, err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			stationID uuid.UUID
			count     int
		)
		if err := rows.Scan(&stationID, &count); err != nil {
			r.log.Error("Failed to scan active count row", zap.Error(err))
			return nil, fmt.Errorf("scan active count row: %w", err)
		}
		counts[stationID] = count
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate active count rows: %w", err)
	}

	return counts, nil
}

// FindHistoryByUser returns every booking of the user, newest first. Soft
// deleted stations still resolve their name and place.
func (r *bookingRepository) FindHistoryByUser(ctx context.Context, userID uuid.UUID) ([]*entity.BookingHistory, error) {
	query := `
		SELECT ` + bookingColumns + `, COALESCE(s.name, ''), COALESCE(s.place, '')
		FROM bookings b
		LEFT JOIN stations s ON s.id = b.station_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find booking history",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find booking history for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	var history []*entity.BookingHistory
	for rows.Next() {
		var h entity.BookingHistory
		dest := append(bookingDest(&h.Booking), &h.StationName, &h.StationPlace)
		if err := rows.Scan(dest...); err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		history = append(history, &h)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return history, nil
}
