package usecase

import (
	"context"
	"fmt"

	"car-rental/internal/data/entity"
	"car-rental/internal/data/repository"
	"car-rental/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	ChangeRoleToOwner(ctx context.Context, userID string) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	// Parse userID
	id, err := uuid.Parse(userID)
	if err != nil {
		us.log.Warn("Invalid user ID", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("invalid user ID")
	}

	// Find user
	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to get profile")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ChangeRoleToOwner upgrades an account so it can list cars.
func (us *userService) ChangeRoleToOwner(ctx context.Context, userID string) (*response.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID")
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user for role change", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to change role")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if user.Role != entity.RoleOwner {
		if err := us.userRepo.UpdateRole(ctx, id, entity.RoleOwner); err != nil {
			us.log.Error("Failed to update role", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("failed to change role")
		}
		user.Role = entity.RoleOwner
	}

	us.log.Info("User upgraded to owner", zap.String("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}
