package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rcanepa/docker-testdriven-app/internal/apperrors"
	"github.com/rcanepa/docker-testdriven-app/internal/handlers/render"
	"github.com/rcanepa/docker-testdriven-app/internal/models"
)

type authService interface {
	// Register user and log it in right away
	// Has to return apperrors.ErrUserAlreadyExists if username or email is taken
	Register(ctx context.Context, username string, email string, password string) (models.User, string, error)

	// Login user by email and password
	// Has to return apperrors.ErrUserNotFound or apperrors.ErrWrongPassword
	Login(ctx context.Context, email string, password string) (string, error)

	// Logout verifies the token and revokes it, success only once
	Logout(ctx context.Context, token string) error

	// Status resolves a valid token to its user
	Status(ctx context.Context, token string) (models.User, error)
}

type AuthHandler struct {
	authService authService
}

func NewAuth(auth authService) *AuthHandler {
	return &AuthHandler{authService: auth}
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	type RegisterRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type RegisterSuccessResponse struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		AuthToken string `json:"auth_token"`
	}

	data, err := render.BindAndValidate[RegisterRequest](w, r)
	if err != nil {
		return
	}

	_, token, err := h.authService.Register(r.Context(), data.Username, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Fail(w, "Sorry. That user already exists.", http.StatusBadRequest)
		default:
			render.Fail(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, RegisterSuccessResponse{
		Status:    render.StatusSuccess,
		Message:   "Successfully registered.",
		AuthToken: token,
	}, http.StatusCreated)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type LoginSuccessResponse struct {
		Status    string `json:"status"`
		Message   string `json:"message"`
		AuthToken string `json:"auth_token"`
	}

	data, err := render.BindAndValidate[LoginRequest](w, r)
	if err != nil {
		return
	}

	token, err := h.authService.Login(r.Context(), data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Fail(w, "User does not exist.", http.StatusNotFound)
		case errors.Is(err, apperrors.ErrWrongPassword):
			render.Fail(w, "Invalid credentials.", http.StatusUnauthorized)
		default:
			render.Fail(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, LoginSuccessResponse{
		Status:    render.StatusSuccess,
		Message:   "Successfully logged in.",
		AuthToken: token,
	})
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	type LogoutSuccessResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	token, ok := bearerToken(r)
	if !ok {
		render.Fail(w, "Provide a valid auth token.", http.StatusUnauthorized)
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		failAuth(w, err)
		return
	}

	render.JSON(w, LogoutSuccessResponse{
		Status:  render.StatusSuccess,
		Message: "Successfully logged out.",
	})
}

func (h *AuthHandler) status(w http.ResponseWriter, r *http.Request) {
	type StatusSuccessResponse struct {
		Status string     `json:"status"`
		Data   PublicUser `json:"data"`
	}

	token, ok := bearerToken(r)
	if !ok {
		render.Fail(w, "Provide a valid auth token.", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.Status(r.Context(), token)
	if err != nil {
		failAuth(w, err)
		return
	}

	render.JSON(w, StatusSuccessResponse{
		Status: render.StatusSuccess,
		Data:   NewPublicUser(user),
	})
}

// bearerToken extracts token from 'Authorization: Bearer <token>' header
func bearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}

	return token, true
}

// failAuth maps verification pipeline errors to the wire envelope
// Revoked and malformed tokens answer with the same message on purpose
func failAuth(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		render.Fail(w, "Signature expired. Please log in again.", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrTokenInvalid):
		render.Fail(w, "Invalid token. Please log in again.", http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.Fail(w, "User does not exist.", http.StatusNotFound)
	default:
		render.Fail(w, "Internal server error.", http.StatusInternalServerError)
	}
}
