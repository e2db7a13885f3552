package repository

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindOverlapping(ctx context.Context, carID uuid.UUID, pickup, ret time.Time) ([]*entity.Booking, error)
	FindByRenter(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByRenter(ctx context.Context, renterID uuid.UUID) (int64, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status entity.BookingStatus) (int64, error)
	SumRevenueByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (float64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error
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

const bookingColumns = `id, car_id, owner_id, renter_id, pickup_date, return_date,
	       price, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CarID,
		&booking.OwnerID,
		&booking.RenterID,
		&booking.PickupDate,
		&booking.ReturnDate,
		&booking.Price,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, car_id, owner_id, renter_id, pickup_date, return_date,
		                      price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CarID,
		booking.OwnerID,
		booking.RenterID,
		booking.PickupDate,
		booking.ReturnDate,
		booking.Price,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("car_id", booking.CarID.String()),
			zap.String("renter_id", booking.RenterID.String()),
		)
		return fmt.Errorf("create booking for car %s: %w", booking.CarID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

// FindOverlapping returns every booking for the car whose closed date range
// intersects [pickup, ret]. Status is deliberately not filtered: a cancelled
// booking still holds its dates until the product call on releasing them is
// made.
func (r *bookingRepository) FindOverlapping(ctx context.Context, carID uuid.UUID, pickup, ret time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE car_id = $1 AND pickup_date <= $3 AND return_date >= $2
	`

	rows, err := r.db.Query(ctx, query, carID, pickup, ret)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("car_id", carID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings for car %s: %w", carID.String(), err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) FindByRenter(ctx context.Context, renterID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE renter_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, renterID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by renter",
			zap.Error(err),
			zap.String("renter_id", renterID.String()),
		)
		return nil, fmt.Errorf("find bookings by renter %s: %w", renterID.String(), err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) CountByRenter(ctx context.Context, renterID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE renter_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, renterID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by renter",
			zap.Error(err),
			zap.String("renter_id", renterID.String()),
		)
		return 0, fmt.Errorf("count bookings by renter %s: %w", renterID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find bookings by owner %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	return r.collectBookings(rows)
}

func (r *bookingRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE owner_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return 0, fmt.Errorf("count bookings by owner %s: %w", ownerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) CountByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE owner_id = $1 AND status = $2`

	var count int64
	err := r.db.QueryRow(ctx, query, ownerID, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by owner and status",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count %s bookings by owner %s: %w", string(status), ownerID.String(), err)
	}

	return count, nil
}

// SumRevenueByOwnerSince totals confirmed booking prices created on or after
// the cutoff, for the owner dashboard.
func (r *bookingRepository) SumRevenueByOwnerSince(ctx context.Context, ownerID uuid.UUID, since time.Time) (float64, error) {
	query := `
		SELECT COALESCE(SUM(price), 0)
		FROM bookings
		WHERE owner_id = $1 AND status = 'confirmed' AND created_at >= $2
	`

	var revenue float64
	err := r.db.QueryRow(ctx, query, ownerID, since).Scan(&revenue)
	if err != nil {
		r.log.Error("Failed to sum revenue by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return 0, fmt.Errorf("sum revenue by owner %s: %w", ownerID.String(), err)
	}

	return revenue, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}
