package user

import (
	"context"
	"fmt"

	"github.com/rcanepa/docker-testdriven-app/internal/models"
	"github.com/rcanepa/docker-testdriven-app/internal/repository"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth"
)

// Plain user CRUD behind the /users endpoints
type UserService struct {
	hasher   auth.PasswordHasher
	userRepo repository.UserRepo
}

func NewService(hasher auth.PasswordHasher, userRepo repository.UserRepo) *UserService {
	if hasher == nil {
		hasher = auth.DefaultHasher
	}

	return &UserService{
		hasher:   hasher,
		userRepo: userRepo,
	}
}

func (s *UserService) CreateUser(ctx context.Context, username string, email string, password string) (models.User, error) {
	var user models.User

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, fmt.Errorf("can't use this as password. Err: %w", err)
	}

	return s.userRepo.CreateUser(ctx, username, email, hash)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.ListUsers(ctx)
}
