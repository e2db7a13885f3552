package usecase

import (
	"context"
	"fmt"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"
	"car-rental/internal/dto/response"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CarService interface {
	// Public
	GetCars(ctx context.Context) ([]response.CarResponse, error)
	GetCarByID(ctx context.Context, carID string) (*response.CarResponse, error)

	// Owner
	AddCar(ctx context.Context, ownerID string, req *request.AddCarRequest) (*response.CarResponse, error)
	GetOwnerCars(ctx context.Context, ownerID string) ([]response.CarResponse, error)
	ToggleAvailability(ctx context.Context, ownerID, carID string) (*response.CarResponse, error)
	DeleteCar(ctx context.Context, ownerID, carID string) error
	GetDashboard(ctx context.Context, ownerID string) (*response.DashboardResponse, error)
}

type carService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCarService(repo *repository.Repository, log *zap.Logger) CarService {
	return &carService{
		repo: repo,
		log:  log.With(zap.String("service", "car")),
	}
}

func (s *carService) GetCars(ctx context.Context) ([]response.CarResponse, error) {
	cars, err := s.repo.Car.FindAllAvailable(ctx)
	if err != nil {
		s.log.Error("Failed to get available cars", zap.Error(err))
		return nil, fmt.Errorf("get available cars: %w", err)
	}

	return response.CarsToResponse(cars), nil
}

func (s *carService) GetCarByID(ctx context.Context, carID string) (*response.CarResponse, error) {
	id, err := uuid.Parse(carID)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID format %s: %w", carID, err)
	}

	car, err := s.repo.Car.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find car", zap.Error(err), zap.String("car_id", carID))
		return nil, fmt.Errorf("find car %s: %w", carID, err)
	}
	if car == nil || !car.Bookable() {
		return nil, ErrCarNotFound
	}

	resp := response.CarToResponse(car)
	return &resp, nil
}

func (s *carService) AddCar(ctx context.Context, ownerID string, req *request.AddCarRequest) (*response.CarResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Add car validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", ownerID, err)
	}

	now := time.Now()
	car := &entity.Car{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		OwnerID:         &ownerUUID,
		Brand:           req.Brand,
		Model:           req.Model,
		Year:            req.Year,
		Category:        req.Category,
		SeatingCapacity: req.SeatingCapacity,
		FuelType:        req.FuelType,
		Transmission:    req.Transmission,
		PricePerDay:     req.PricePerDay,
		Location:        req.Location,
		Description:     req.Description,
		Image:           req.Image,
		IsAvailable:     true,
	}

	if err := s.repo.Car.Create(ctx, car); err != nil {
		s.log.Error("Failed to add car",
			zap.Error(err),
			zap.String("owner_id", ownerID),
			zap.String("brand", req.Brand),
			zap.String("model", req.Model),
		)
		return nil, fmt.Errorf("add car: %w", err)
	}

	s.log.Info("Car added",
		zap.String("car_id", car.ID.String()),
		zap.String("owner_id", ownerID),
		zap.String("brand", req.Brand),
		zap.String("model", req.Model),
		zap.String("location", req.Location),
		zap.Float64("price_per_day", req.PricePerDay),
	)

	resp := response.CarToResponse(car)
	return &resp, nil
}

func (s *carService) GetOwnerCars(ctx context.Context, ownerID string) ([]response.CarResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", ownerID, err)
	}

	cars, err := s.repo.Car.FindByOwner(ctx, ownerUUID)
	if err != nil {
		s.log.Error("Failed to get owner cars", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, fmt.Errorf("get owner cars: %w", err)
	}

	return response.CarsToResponse(cars), nil
}

func (s *carService) ToggleAvailability(ctx context.Context, ownerID, carID string) (*response.CarResponse, error) {
	car, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return nil, err
	}

	car.IsAvailable = !car.IsAvailable
	if err := s.repo.Car.SetAvailability(ctx, car.ID, car.IsAvailable); err != nil {
		s.log.Error("Failed to toggle availability", zap.Error(err), zap.String("car_id", carID))
		return nil, fmt.Errorf("toggle availability of car %s: %w", carID, err)
	}

	s.log.Info("Car availability toggled",
		zap.String("car_id", carID),
		zap.String("owner_id", ownerID),
		zap.Bool("is_available", car.IsAvailable),
	)

	resp := response.CarToResponse(car)
	return &resp, nil
}

func (s *carService) DeleteCar(ctx context.Context, ownerID, carID string) error {
	car, err := s.ownedCar(ctx, ownerID, carID)
	if err != nil {
		return err
	}

	// Soft delete: the row survives for booking history, the listing dies
	if err := s.repo.Car.SoftDelete(ctx, car.ID); err != nil {
		s.log.Error("Failed to delete car", zap.Error(err), zap.String("car_id", carID))
		return fmt.Errorf("delete car %s: %w", carID, err)
	}

	s.log.Info("Car removed",
		zap.String("car_id", carID),
		zap.String("owner_id", ownerID),
	)

	return nil
}

func (s *carService) GetDashboard(ctx context.Context, ownerID string) (*response.DashboardResponse, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", ownerID, err)
	}

	totalCars, err := s.repo.Car.CountByOwner(ctx, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("count owner cars: %w", err)
	}

	totalBookings, err := s.repo.Booking.CountByOwner(ctx, ownerUUID)
	if err != nil {
		return nil, fmt.Errorf("count owner bookings: %w", err)
	}

	pending, err := s.repo.Booking.CountByOwnerAndStatus(ctx, ownerUUID, entity.BookingStatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}

	confirmed, err := s.repo.Booking.CountByOwnerAndStatus(ctx, ownerUUID, entity.BookingStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("count confirmed bookings: %w", err)
	}

	revenue, err := s.repo.Booking.SumRevenueByOwnerSince(ctx, ownerUUID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, fmt.Errorf("sum monthly revenue: %w", err)
	}

	recent, err := s.repo.Booking.FindByOwner(ctx, ownerUUID, 3, 0)
	if err != nil {
		return nil, fmt.Errorf("get recent bookings: %w", err)
	}

	recentResponses := make([]response.BookingResponse, len(recent))
	for i, booking := range recent {
		car, _ := s.repo.Car.FindByID(ctx, booking.CarID)
		recentResponses[i] = response.BookingToResponse(booking, car)
	}

	s.log.Info("Dashboard retrieved",
		zap.String("owner_id", ownerID),
		zap.Int64("total_cars", totalCars),
		zap.Int64("total_bookings", totalBookings),
		zap.Float64("monthly_revenue", revenue),
	)

	return &response.DashboardResponse{
		TotalCars:         totalCars,
		TotalBookings:     totalBookings,
		PendingBookings:   pending,
		ConfirmedBookings: confirmed,
		RecentBookings:    recentResponses,
		MonthlyRevenue:    revenue,
	}, nil
}

// ==================== HELPER METHODS ====================

// ownedCar loads a car and verifies the requester is its current owner.
func (s *carService) ownedCar(ctx context.Context, ownerID, carID string) (*entity.Car, error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", ownerID, err)
	}

	id, err := uuid.Parse(carID)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID format %s: %w", carID, err)
	}

	car, err := s.repo.Car.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find car", zap.Error(err), zap.String("car_id", carID))
		return nil, fmt.Errorf("find car %s: %w", carID, err)
	}
	if car == nil {
		return nil, ErrCarNotFound
	}

	if car.OwnerID == nil || *car.OwnerID != ownerUUID {
		s.log.Warn("Car operation by non-owner",
			zap.String("car_id", carID),
			zap.String("requester_id", ownerID),
		)
		return nil, ErrUnauthorized
	}

	return car, nil
}
