package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"
	"car-rental/internal/dto/response"
	"car-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Every storage round-trip on the booking path gets this budget; a deadline
// surfaces as ErrStorageTimeout so callers can retry, except inside the batch
// availability fan-out where a slow car just reads as unavailable.
const storageCallTimeout = 3 * time.Second

type BookingService interface {
	// Public
	CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) ([]response.CarResponse, error)

	// Authenticated
	CreateBooking(ctx context.Context, renterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetRenterBookings(ctx context.Context, renterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Owner
	GetOwnerBookings(ctx context.Context, ownerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ChangeBookingStatus(ctx context.Context, requesterID string, req *request.ChangeBookingStatusRequest) (*response.BookingResponse, error)
}

type bookingService struct {
	repo     *repository.Repository
	carLocks *carLocker
	log      *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		carLocks: newCarLocker(),
		log:      log.With(zap.String("service", "booking")),
	}
}

// isCarAvailable reports whether no existing booking for the car overlaps
// [pickup, ret]. The overlap test is closed-interval: ranges that share an
// endpoint conflict. Booking status is not consulted; see FindOverlapping.
func (s *bookingService) isCarAvailable(ctx context.Context, carID uuid.UUID, pickup, ret time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, storageCallTimeout)
	defer cancel()

	overlapping, err := s.repo.Booking.FindOverlapping(ctx, carID, pickup, ret)
	if err != nil {
		return false, err
	}

	return len(overlapping) == 0, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, req *request.CheckAvailabilityRequest) ([]response.CarResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Check availability validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	pickup, ret, err := parseDateRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}
	if ret.Before(pickup) {
		return nil, ErrInvalidDates
	}

	// Candidate cars at the location, manually flagged available and not
	// delisted
	cars, err := s.repo.Car.FindAvailableByLocation(ctx, req.Location)
	if err != nil {
		s.log.Error("Failed to load cars for availability check",
			zap.Error(err),
			zap.String("location", req.Location),
		)
		return nil, fmt.Errorf("load cars at %s: %w", req.Location, err)
	}

	// Check every car concurrently. A failed check marks that car
	// unavailable instead of failing the whole scan; the public listing
	// stays usable when one lookup misbehaves.
	available := make([]bool, len(cars))
	var wg sync.WaitGroup
	for i, car := range cars {
		wg.Add(1)
		go func(i int, carID uuid.UUID) {
			defer wg.Done()

			ok, err := s.isCarAvailable(ctx, carID, pickup, ret)
			if err != nil {
				s.log.Warn("Per-car availability check failed, treating as unavailable",
					zap.Error(err),
					zap.String("car_id", carID.String()),
				)
				return
			}
			available[i] = ok
		}(i, car.ID)
	}
	wg.Wait()

	availableCars := make([]response.CarResponse, 0, len(cars))
	for i, car := range cars {
		if available[i] {
			availableCars = append(availableCars, response.CarToResponse(car))
		}
	}

	s.log.Info("Availability checked",
		zap.String("location", req.Location),
		zap.String("pickup_date", req.PickupDate),
		zap.String("return_date", req.ReturnDate),
		zap.Int("candidates", len(cars)),
		zap.Int("available", len(availableCars)),
	)

	return availableCars, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID string, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	renterUUID, err := uuid.Parse(renterID)
	if err != nil {
		return nil, fmt.Errorf("invalid renter ID format %s: %w", renterID, err)
	}

	carID, err := uuid.Parse(req.CarID)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID format %s: %w", req.CarID, err)
	}

	pickup, ret, err := parseDateRange(req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}

	// Any partial day bills as a full day. Zero or negative day counts are
	// rejected: a same-day pickup and return would otherwise price at zero.
	days := int(math.Ceil(ret.Sub(pickup).Hours() / 24))
	if days <= 0 {
		return nil, ErrInvalidDates
	}

	// Serialize check-then-insert per car so two concurrent requests cannot
	// both pass the availability check.
	unlock := s.carLocks.Lock(carID)
	defer unlock()

	ok, err := s.isCarAvailable(ctx, carID, pickup, ret)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStorageTimeout
		}
		s.log.Error("Failed to check availability", zap.Error(err), zap.String("car_id", req.CarID))
		return nil, fmt.Errorf("check availability of car %s: %w", req.CarID, err)
	}
	if !ok {
		return nil, ErrCarUnavailable
	}

	car, err := s.findCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	// A delisted car has no owner to rent from; the listing is gone.
	if car == nil || !car.Bookable() {
		return nil, ErrCarNotFound
	}

	price := car.PricePerDay * float64(days)

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CarID:      carID,
		OwnerID:    *car.OwnerID,
		RenterID:   renterUUID,
		PickupDate: pickup,
		ReturnDate: ret,
		Price:      price,
		Status:     entity.BookingStatusPending,
	}

	if err := s.createBooking(ctx, booking); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStorageTimeout
		}
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("car_id", req.CarID),
			zap.String("renter_id", renterID),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("car_id", req.CarID),
		zap.String("renter_id", renterID),
		zap.String("pickup_date", req.PickupDate),
		zap.String("return_date", req.ReturnDate),
		zap.Int("days", days),
		zap.Float64("price", price),
	)

	resp := response.BookingToResponse(booking, car)
	return &resp, nil
}

func (s *bookingService) GetRenterBookings(ctx context.Context, renterID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	renterUUID, err := uuid.Parse(renterID)
	if err != nil {
		return nil, fmt.Errorf("invalid renter ID format %s: %w", renterID, err)
	}

	bookings, err := s.repo.Booking.FindByRenter(ctx, renterUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get renter bookings", zap.Error(err), zap.String("renter_id", renterID))
		return nil, fmt.Errorf("get renter bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByRenter(ctx, renterUUID)
	if err != nil {
		s.log.Error("Failed to count renter bookings", zap.Error(err))
		return nil, fmt.Errorf("count renter bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toBookingResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) GetOwnerBookings(ctx context.Context, ownerID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	ownerUUID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("invalid owner ID format %s: %w", ownerID, err)
	}

	bookings, err := s.repo.Booking.FindByOwner(ctx, ownerUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get owner bookings", zap.Error(err), zap.String("owner_id", ownerID))
		return nil, fmt.Errorf("get owner bookings: %w", err)
	}

	total, err := s.repo.Booking.CountByOwner(ctx, ownerUUID)
	if err != nil {
		s.log.Error("Failed to count owner bookings", zap.Error(err))
		return nil, fmt.Errorf("count owner bookings: %w", err)
	}

	return response.NewPaginatedResponse(s.toBookingResponses(ctx, bookings), req.Page, req.PerPage, total), nil
}

func (s *bookingService) ChangeBookingStatus(ctx context.Context, requesterID string, req *request.ChangeBookingStatusRequest) (*response.BookingResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Change booking status validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	requesterUUID, err := uuid.Parse(requesterID)
	if err != nil {
		return nil, fmt.Errorf("invalid requester ID format %s: %w", requesterID, err)
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID format %s: %w", req.BookingID, err)
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, fmt.Errorf("find booking %s: %w", req.BookingID, err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	// Authorization anchors on the owner snapshot taken at creation, so the
	// owner keeps control even if the car was later delisted or reassigned.
	if booking.OwnerID != requesterUUID {
		s.log.Warn("Unauthorized status change attempt",
			zap.String("booking_id", req.BookingID),
			zap.String("requester_id", requesterID),
		)
		return nil, ErrUnauthorized
	}

	// confirmed and cancelled are terminal
	if booking.Status.Terminal() {
		return nil, ErrInvalidStatusChange
	}

	newStatus := entity.BookingStatus(req.Status)
	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStorageTimeout
		}
		s.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", req.BookingID),
			zap.String("status", req.Status),
		)
		return nil, fmt.Errorf("update booking %s status: %w", req.BookingID, err)
	}

	booking.Status = newStatus
	booking.UpdatedAt = time.Now()

	s.log.Info("Booking status changed",
		zap.String("booking_id", req.BookingID),
		zap.String("status", req.Status),
		zap.String("owner_id", requesterID),
	)

	resp := response.BookingToResponse(booking, nil)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *bookingService) findCar(ctx context.Context, carID uuid.UUID) (*entity.Car, error) {
	ctx, cancel := context.WithTimeout(ctx, storageCallTimeout)
	defer cancel()

	car, err := s.repo.Car.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrStorageTimeout
		}
		s.log.Error("Failed to find car", zap.Error(err), zap.String("car_id", carID.String()))
		return nil, fmt.Errorf("find car %s: %w", carID.String(), err)
	}

	return car, nil
}

func (s *bookingService) createBooking(ctx context.Context, booking *entity.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, storageCallTimeout)
	defer cancel()

	return s.repo.Booking.Create(ctx, booking)
}

func (s *bookingService) toBookingResponses(ctx context.Context, bookings []*entity.Booking) []response.BookingResponse {
	responses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		// Car details are best-effort; the booking itself is the record
		car, _ := s.repo.Car.FindByID(ctx, booking.CarID)
		responses[i] = response.BookingToResponse(booking, car)
	}
	return responses
}

func parseDateRange(pickupStr, returnStr string) (time.Time, time.Time, error) {
	pickup, err := time.Parse(request.DateLayout, pickupStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}

	ret, err := time.Parse(request.DateLayout, returnStr)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDates
	}

	return pickup, ret, nil
}
