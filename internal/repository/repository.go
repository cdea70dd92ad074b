package repository

import (
	"context"

	"github.com/rcanepa/docker-testdriven-app/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user with the given username, email and password hash
	// If username or email is taken already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error)

	// Get user by it's id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// List all users ordered by creation time
	ListUsers(ctx context.Context) ([]models.User, error)
}

// RevokedToken repository interface (the token blacklist)
type RevokedTokenRepo interface {
	// Put token to the blacklist
	// Must be idempotent: revoking an already revoked token is not an error
	Revoke(ctx context.Context, token string) error

	// Report whether the token is blacklisted
	IsRevoked(ctx context.Context, token string) (bool, error)
}
