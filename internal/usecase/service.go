package usecase

import (
	"car-rental/internal/data/repository"
	"car-rental/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Car     CarService
	Booking BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:    NewAuthService(repo, config, log),
		User:    NewUserService(repo.User, log),
		Car:     NewCarService(repo, log),
		Booking: NewBookingService(repo, log),
	}
}
