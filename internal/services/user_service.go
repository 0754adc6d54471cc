package services

import (
	"context"
	"fmt"

	"github.com/workpulse/workpulse-backend/internal/models"
	"github.com/workpulse/workpulse-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure userService implements UserService
var _ UserService = (*userService)(nil)

// UserService defines the interface for user management operations
type UserService interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	// Deactivate clears the active flag so the rollover batch stops
	// visiting the user; their historical entries are untouched.
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	GetUserCount(ctx context.Context) (int64, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, user *models.User) error {
	return s.userRepo.Update(ctx, user)
}

func (s *userService) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}
	user.IsActive = false
	return s.userRepo.Update(ctx, user)
}

func (s *userService) GetUserCount(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
