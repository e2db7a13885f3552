package repository

import (
	"context"
	"fmt"

	"car-rental/internal/data/entity"
	"car-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CarRepository interface {
	Create(ctx context.Context, car *entity.Car) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error)
	FindAllAvailable(ctx context.Context) ([]*entity.Car, error)
	FindAvailableByLocation(ctx context.Context, location string) ([]*entity.Car, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Car, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type carRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCarRepository(db database.PgxIface, log *zap.Logger) CarRepository {
	return &carRepository{
		db:  db,
		log: log.With(zap.String("repository", "car")),
	}
}

const carColumns = `id, owner_id, brand, model, year, category, seating_capacity,
	       fuel_type, transmission, price_per_day, location, description, image,
	       is_available, created_at, updated_at`

func scanCar(row pgx.Row) (*entity.Car, error) {
	var car entity.Car
	err := row.Scan(
		&car.ID,
		&car.OwnerID,
		&car.Brand,
		&car.Model,
		&car.Year,
		&car.Category,
		&car.SeatingCapacity,
		&car.FuelType,
		&car.Transmission,
		&car.PricePerDay,
		&car.Location,
		&car.Description,
		&car.Image,
		&car.IsAvailable,
		&car.CreatedAt,
		&car.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &car, nil
}

func (r *carRepository) Create(ctx context.Context, car *entity.Car) error {
	query := `
		INSERT INTO cars (id, owner_id, brand, model, year, category, seating_capacity,
		                  fuel_type, transmission, price_per_day, location, description,
		                  image, is_available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.Exec(ctx, query,
		car.ID,
		car.OwnerID,
		car.Brand,
		car.Model,
		car.Year,
		car.Category,
		car.SeatingCapacity,
		car.FuelType,
		car.Transmission,
		car.PricePerDay,
		car.Location,
		car.Description,
		car.Image,
		car.IsAvailable,
		car.CreatedAt,
		car.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create car",
			zap.Error(err),
			zap.String("brand", car.Brand),
			zap.String("model", car.Model),
		)
		return fmt.Errorf("create car %s %s: %w", car.Brand, car.Model, err)
	}

	return nil
}

func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`

	car, err := scanCar(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find car by ID",
			zap.Error(err),
			zap.String("car_id", id.String()),
		)
		return nil, fmt.Errorf("find car by ID %s: %w", id.String(), err)
	}

	return car, nil
}

// Listing queries exclude delisted cars: owner_id IS NOT NULL is part of the
// availability invariant, not an optimization.

func (r *carRepository) FindAllAvailable(ctx context.Context) ([]*entity.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE is_available = TRUE AND owner_id IS NOT NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find available cars", zap.Error(err))
		return nil, fmt.Errorf("find available cars: %w", err)
	}
	defer rows.Close()

	return r.collectCars(rows)
}

func (r *carRepository) FindAvailableByLocation(ctx context.Context, location string) ([]*entity.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE location = $1 AND is_available = TRUE AND owner_id IS NOT NULL
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, location)
	if err != nil {
		r.log.Error("Failed to find cars by location",
			zap.Error(err),
			zap.String("location", location),
		)
		return nil, fmt.Errorf("find cars at %s: %w", location, err)
	}
	defer rows.Close()

	return r.collectCars(rows)
}

func (r *carRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Car, error) {
	query := `
		SELECT ` + carColumns + `
		FROM cars
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.log.Error("Failed to find cars by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return nil, fmt.Errorf("find cars by owner %s: %w", ownerID.String(), err)
	}
	defer rows.Close()

	return r.collectCars(rows)
}

func (r *carRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM cars WHERE owner_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count cars by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID.String()),
		)
		return 0, fmt.Errorf("count cars by owner %s: %w", ownerID.String(), err)
	}

	return count, nil
}

func (r *carRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	query := `UPDATE cars SET is_available = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, available)
	if err != nil {
		r.log.Error("Failed to set car availability",
			zap.Error(err),
			zap.String("car_id", id.String()),
			zap.Bool("available", available),
		)
		return fmt.Errorf("set availability of car %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("car %s not found", id.String())
	}

	return nil
}

// SoftDelete delists a car: the owner reference is cleared and the manual
// flag dropped. The row stays because bookings reference it.
func (r *carRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE cars SET owner_id = NULL, is_available = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to soft delete car",
			zap.Error(err),
			zap.String("car_id", id.String()),
		)
		return fmt.Errorf("soft delete car %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("car %s not found", id.String())
	}

	r.log.Info("Car delisted", zap.String("car_id", id.String()))
	return nil
}

func (r *carRepository) collectCars(rows pgx.Rows) ([]*entity.Car, error) {
	var cars []*entity.Car
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			r.log.Error("Failed to scan car row", zap.Error(err))
			return nil, fmt.Errorf("scan car row: %w", err)
		}
		cars = append(cars, car)
	}

	return cars, nil
}
