package wire

import (
	"car-rental/internal/adaptor"
	"car-rental/internal/data/repository"
	"car-rental/pkg/middleware"
	"car-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCar(
	r chi.Router,
	carHandler *adaptor.CarHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/cars - Browse listed cars
	r.Get("/api/cars", carHandler.GetCars)

	// GET /api/cars/{id} - Car details
	r.Get("/api/cars/{id}", carHandler.GetCarByID)

	// ==================== OWNER ROUTES ====================
	// Owner car management routes
	r.Route("/api/owner/cars", func(r chi.Router) {
		// Require both authentication AND owner role
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Owner(repo.User, log))

		// POST /api/owner/cars - List a new car
		r.Post("/", carHandler.AddCar)

		// GET /api/owner/cars - Owner's own cars
		r.Get("/", carHandler.GetOwnerCars)

		// POST /api/owner/cars/{id}/toggle - Flip manual availability flag
		r.Post("/{id}/toggle", carHandler.ToggleAvailability)

		// DELETE /api/owner/cars/{id} - Delist a car
		r.Delete("/{id}", carHandler.DeleteCar)
	})

	// GET /api/owner/dashboard - Owner aggregate stats
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Owner(repo.User, log))

		r.Get("/api/owner/dashboard", carHandler.GetDashboard)
	})
}
