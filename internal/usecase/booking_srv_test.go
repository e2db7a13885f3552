package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/request"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bookingFixture struct {
	svc      BookingService
	cars     *fakeCarRepo
	bookings *fakeBookingRepo
}

func newBookingFixture() *bookingFixture {
	cars := newFakeCarRepo()
	bookings := newFakeBookingRepo()
	repo := &repository.Repository{
		Car:     cars,
		Booking: bookings,
	}
	return &bookingFixture{
		svc:      NewBookingService(repo, zap.NewNop()),
		cars:     cars,
		bookings: bookings,
	}
}

func seedCar(t *testing.T, cars *fakeCarRepo, location string, pricePerDay float64) *entity.Car {
	t.Helper()

	ownerID := uuid.New()
	car := &entity.Car{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		OwnerID:         &ownerID,
		Brand:           "Toyota",
		Model:           "Corolla",
		Year:            2022,
		Category:        "Sedan",
		SeatingCapacity: 5,
		FuelType:        "Petrol",
		Transmission:    "Automatic",
		PricePerDay:     pricePerDay,
		Location:        location,
		IsAvailable:     true,
	}
	require.NoError(t, cars.Create(context.Background(), car))
	return car
}

func seedBooking(t *testing.T, bookings *fakeBookingRepo, car *entity.Car, pickup, ret string, status entity.BookingStatus) *entity.Booking {
	t.Helper()

	p, err := time.Parse(request.DateLayout, pickup)
	require.NoError(t, err)
	r, err := time.Parse(request.DateLayout, ret)
	require.NoError(t, err)

	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		CarID:      car.ID,
		OwnerID:    *car.OwnerID,
		RenterID:   uuid.New(),
		PickupDate: p,
		ReturnDate: r,
		Price:      car.PricePerDay,
		Status:     status,
	}
	require.NoError(t, bookings.Create(context.Background(), booking))
	return booking
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("filters out cars with overlapping bookings", func(t *testing.T) {
		fix := newBookingFixture()
		booked := seedCar(t, fix.cars, "Accra", 100)
		free := seedCar(t, fix.cars, "Accra", 150)
		seedBooking(t, fix.bookings, booked, "2025-06-10", "2025-06-15", entity.BookingStatusPending)

		cars, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "2025-06-12",
			ReturnDate: "2025-06-14",
		})
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, free.ID.String(), cars[0].ID)
	})

	t.Run("shared endpoint counts as overlap", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-15", entity.BookingStatusPending)

		// New range starts the day the existing one ends
		cars, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "2025-06-15",
			ReturnDate: "2025-06-20",
		})
		require.NoError(t, err)
		assert.Empty(t, cars)
	})

	t.Run("cancelled booking still blocks dates", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-15", entity.BookingStatusCancelled)

		cars, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "2025-06-12",
			ReturnDate: "2025-06-14",
		})
		require.NoError(t, err)
		assert.Empty(t, cars)
	})

	t.Run("no cars at location is success with empty list", func(t *testing.T) {
		fix := newBookingFixture()

		cars, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Kumasi",
			PickupDate: "2025-06-12",
			ReturnDate: "2025-06-14",
		})
		require.NoError(t, err)
		assert.Empty(t, cars)
	})

	t.Run("return before pickup is rejected", func(t *testing.T) {
		fix := newBookingFixture()
		seedCar(t, fix.cars, "Accra", 100)

		_, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "2025-06-14",
			ReturnDate: "2025-06-12",
		})
		assert.ErrorIs(t, err, ErrInvalidDates)
	})

	t.Run("unparseable date is rejected", func(t *testing.T) {
		fix := newBookingFixture()

		_, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "12-06-2025",
			ReturnDate: "2025-06-14",
		})
		assert.Error(t, err)
	})

	t.Run("one failing car check does not fail the scan", func(t *testing.T) {
		fix := newBookingFixture()
		broken := seedCar(t, fix.cars, "Accra", 100)
		healthy := seedCar(t, fix.cars, "Accra", 150)
		fix.bookings.overlapErrFor[broken.ID] = assert.AnError

		cars, err := fix.svc.CheckAvailability(ctx, &request.CheckAvailabilityRequest{
			Location:   "Accra",
			PickupDate: "2025-06-12",
			ReturnDate: "2025-06-14",
		})
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, healthy.ID.String(), cars[0].ID)
	})
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending booking with snapshot price and owner", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		renterID := uuid.New().String()

		booking, err := fix.svc.CreateBooking(ctx, renterID, &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-10",
			ReturnDate: "2025-06-12",
		})
		require.NoError(t, err)

		// Two days at 100/day
		assert.Equal(t, 200.0, booking.Price)
		assert.Equal(t, entity.BookingStatusPending, booking.Status)
		assert.Equal(t, car.OwnerID.String(), booking.OwnerID)
		assert.Equal(t, renterID, booking.RenterID)
		assert.Equal(t, 1, fix.bookings.len())
	})

	t.Run("overlapping dates are refused and ledger unchanged", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-15", entity.BookingStatusPending)

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-14",
			ReturnDate: "2025-06-18",
		})
		assert.ErrorIs(t, err, ErrCarUnavailable)
		assert.Equal(t, 1, fix.bookings.len())
	})

	t.Run("back to back booking after return day succeeds", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-15", entity.BookingStatusPending)

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-16",
			ReturnDate: "2025-06-18",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, fix.bookings.len())
	})

	t.Run("cancelled booking still blocks the range", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-15", entity.BookingStatusCancelled)

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-12",
			ReturnDate: "2025-06-14",
		})
		assert.ErrorIs(t, err, ErrCarUnavailable)
	})

	t.Run("same day pickup and return is rejected", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-10",
			ReturnDate: "2025-06-10",
		})
		assert.ErrorIs(t, err, ErrInvalidDates)
		assert.Equal(t, 0, fix.bookings.len())
	})

	t.Run("return before pickup is rejected", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-14",
			ReturnDate: "2025-06-10",
		})
		assert.ErrorIs(t, err, ErrInvalidDates)
	})

	t.Run("unknown car", func(t *testing.T) {
		fix := newBookingFixture()

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      uuid.New().String(),
			PickupDate: "2025-06-10",
			ReturnDate: "2025-06-12",
		})
		assert.ErrorIs(t, err, ErrCarNotFound)
	})

	t.Run("delisted car cannot be booked", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		require.NoError(t, fix.cars.SoftDelete(ctx, car.ID))

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-10",
			ReturnDate: "2025-06-12",
		})
		assert.ErrorIs(t, err, ErrCarNotFound)
	})

	t.Run("storage deadline surfaces as retryable timeout", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		fix.bookings.overlapErrFor[car.ID] = context.DeadlineExceeded

		_, err := fix.svc.CreateBooking(ctx, uuid.New().String(), &request.CreateBookingRequest{
			CarID:      car.ID.String(),
			PickupDate: "2025-06-10",
			ReturnDate: "2025-06-12",
		})
		assert.ErrorIs(t, err, ErrStorageTimeout)
		assert.Equal(t, 0, fix.bookings.len())
	})

	t.Run("concurrent requests for the same range yield one booking", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		// Widen the window between check and insert
		fix.bookings.overlapDelay = 20 * time.Millisecond

		req := func() *request.CreateBookingRequest {
			return &request.CreateBookingRequest{
				CarID:      car.ID.String(),
				PickupDate: "2025-06-10",
				ReturnDate: "2025-06-12",
			}
		}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fix.svc.CreateBooking(ctx, uuid.New().String(), req())
			}(i)
		}
		wg.Wait()

		var succeeded, conflicted int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case err == ErrCarUnavailable:
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, conflicted)
		assert.Equal(t, 1, fix.bookings.len())
	})
}

func TestChangeBookingStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("owner confirms pending booking", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		booking := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusPending)

		resp, err := fix.svc.ChangeBookingStatus(ctx, car.OwnerID.String(), &request.ChangeBookingStatusRequest{
			BookingID: booking.ID.String(),
			Status:    "confirmed",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusConfirmed, resp.Status)

		stored, err := fix.bookings.FindByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusConfirmed, stored.Status)
	})

	t.Run("owner cancels pending booking", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		booking := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusPending)

		resp, err := fix.svc.ChangeBookingStatus(ctx, car.OwnerID.String(), &request.ChangeBookingStatusRequest{
			BookingID: booking.ID.String(),
			Status:    "cancelled",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusCancelled, resp.Status)
	})

	t.Run("non-owner cannot change status", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		booking := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusPending)

		_, err := fix.svc.ChangeBookingStatus(ctx, uuid.New().String(), &request.ChangeBookingStatusRequest{
			BookingID: booking.ID.String(),
			Status:    "confirmed",
		})
		assert.ErrorIs(t, err, ErrUnauthorized)

		stored, err := fix.bookings.FindByID(ctx, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusPending, stored.Status)
	})

	t.Run("confirmed booking is terminal", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		booking := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusConfirmed)

		_, err := fix.svc.ChangeBookingStatus(ctx, car.OwnerID.String(), &request.ChangeBookingStatusRequest{
			BookingID: booking.ID.String(),
			Status:    "cancelled",
		})
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
	})

	t.Run("cancelled booking is terminal", func(t *testing.T) {
		fix := newBookingFixture()
		car := seedCar(t, fix.cars, "Accra", 100)
		booking := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusCancelled)

		_, err := fix.svc.ChangeBookingStatus(ctx, car.OwnerID.String(), &request.ChangeBookingStatusRequest{
			BookingID: booking.ID.String(),
			Status:    "confirmed",
		})
		assert.ErrorIs(t, err, ErrInvalidStatusChange)
	})

	t.Run("unknown booking", func(t *testing.T) {
		fix := newBookingFixture()

		_, err := fix.svc.ChangeBookingStatus(ctx, uuid.New().String(), &request.ChangeBookingStatusRequest{
			BookingID: uuid.New().String(),
			Status:    "confirmed",
		})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("status outside the allowed set fails validation", func(t *testing.T) {
		fix := newBookingFixture()

		_, err := fix.svc.ChangeBookingStatus(ctx, uuid.New().String(), &request.ChangeBookingStatusRequest{
			BookingID: uuid.New().String(),
			Status:    "returned",
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestGetRenterBookings(t *testing.T) {
	ctx := context.Background()

	fix := newBookingFixture()
	car := seedCar(t, fix.cars, "Accra", 100)
	first := seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusPending)
	seedBooking(t, fix.bookings, car, "2025-07-01", "2025-07-05", entity.BookingStatusConfirmed)

	resp, err := fix.svc.GetRenterBookings(ctx, first.RenterID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, first.ID.String(), resp.Data[0].ID)
}

func TestGetOwnerBookings(t *testing.T) {
	ctx := context.Background()

	fix := newBookingFixture()
	car := seedCar(t, fix.cars, "Accra", 100)
	seedBooking(t, fix.bookings, car, "2025-06-10", "2025-06-12", entity.BookingStatusPending)
	seedBooking(t, fix.bookings, car, "2025-07-01", "2025-07-05", entity.BookingStatusConfirmed)

	resp, err := fix.svc.GetOwnerBookings(ctx, car.OwnerID.String(), &request.PaginatedRequest{Page: 1, PerPage: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}
