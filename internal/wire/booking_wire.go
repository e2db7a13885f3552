package wire

import (
	"car-rental/internal/adaptor"
	"car-rental/internal/data/repository"
	"car-rental/pkg/middleware"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/bookings/check-availability - Cars free for a date range
	r.Post("/api/bookings/check-availability", bookingHandler.CheckAvailability)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings - Create new booking (authenticated users only)
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/user/bookings - View booking history (renter's own bookings)
		r.Get("/api/user/bookings", bookingHandler.GetRenterBookings)
	})

	// ==================== OWNER ROUTES ====================
	r.Group(func(r chi.Router) {
		// Require both authentication AND owner role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Owner(repo.User, log))

		// GET /api/owner/bookings - Bookings on the owner's cars
		r.Get("/api/owner/bookings", bookingHandler.GetOwnerBookings)

		// POST /api/owner/bookings/change-status - Confirm or cancel a booking
		r.Post("/api/owner/bookings/change-status", bookingHandler.ChangeBookingStatus)
	})
}
