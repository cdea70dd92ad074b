package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcanepa/docker-testdriven-app/internal/apperrors"
	"github.com/rcanepa/docker-testdriven-app/internal/models"
	"github.com/rcanepa/docker-testdriven-app/internal/repository"
	"github.com/rcanepa/docker-testdriven-app/internal/service/auth/tokenmanager"
)

type Config struct {
	// Hasher to use during registration and login
	// BcryptHasher is used if not set
	Hasher PasswordHasher
}

// Auth service
// Owns the token verification pipeline: parse first (malformed, then expired),
// then the blacklist, then the user lookup
type AuthService struct {
	// Manager to issue and parse tokens
	token *tokenmanager.TokenManager

	// Hasher to hash or compare user passwords
	hasher PasswordHasher

	// Repositories for long term data
	userRepo    repository.UserRepo
	revokedRepo repository.RevokedTokenRepo
}

func NewService(cfg Config, token *tokenmanager.TokenManager, userRepo repository.UserRepo, revokedRepo repository.RevokedTokenRepo) (*AuthService, error) {
	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if token == nil {
		return nil, errors.New("token manager must not be nil")
	}

	if userRepo == nil || revokedRepo == nil {
		return nil, errors.New("repos must not be nil")
	}

	return &AuthService{
		token:       token,
		hasher:      hasher,
		userRepo:    userRepo,
		revokedRepo: revokedRepo,
	}, nil
}

// Register creates the user and logs it in right away
// Duplicate username or email surfaces as apperrors.ErrUserAlreadyExists
func (s *AuthService) Register(ctx context.Context, username string, email string, password string) (models.User, string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, "", fmt.Errorf("can't use this as password. Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return models.User{}, "", err
	}

	token, err := s.token.Issue(user.ID)
	if err != nil {
		return models.User{}, "", fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return user, token, nil
}

// Login issues a fresh token for the user found by email
func (s *AuthService) Login(ctx context.Context, email string, password string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", apperrors.ErrWrongPassword
	}

	token, err := s.token.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return token, nil
}

// Logout revokes the token after running the full verification pipeline
// Succeeds only once: the second call fails at the blacklist step
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.Authenticate(ctx, token); err != nil {
		return err
	}

	return s.revokedRepo.Revoke(ctx, token)
}

// Status returns the user behind a valid token
func (s *AuthService) Status(ctx context.Context, token string) (models.User, error) {
	return s.Authenticate(ctx, token)
}

// Authenticate runs the token verification pipeline in the exact order:
//  1. malformed or bad signature -> apperrors.ErrTokenInvalid
//  2. expired                    -> apperrors.ErrTokenExpired
//  3. blacklisted                -> apperrors.ErrTokenInvalid
//  4. subject gone               -> apperrors.ErrUserNotFound
//
// Revoked tokens are reported the same way as malformed ones on purpose
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	userID, err := s.token.Parse(token)
	if err != nil {
		return models.User{}, err
	}

	revoked, err := s.revokedRepo.IsRevoked(ctx, token)
	if err != nil {
		return models.User{}, fmt.Errorf("blacklist check failed. Err: %w", err)
	}
	if revoked {
		return models.User{}, fmt.Errorf("token revoked: %w", apperrors.ErrTokenInvalid)
	}

	return s.userRepo.GetUserByID(ctx, userID)
}
