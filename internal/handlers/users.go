package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rcanepa/docker-testdriven-app/internal/apperrors"
	"github.com/rcanepa/docker-testdriven-app/internal/handlers/render"
	"github.com/rcanepa/docker-testdriven-app/internal/models"
)

// PublicUser is the user shape exposed over the wire
// Never carries the password hash
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}

func NewPublicUser(u models.User) PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Active:   u.Active,
	}
}

type userService interface {
	CreateUser(ctx context.Context, username string, email string, password string) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type UsersHandler struct {
	userService userService
}

func NewUsers(users userService) *UsersHandler {
	return &UsersHandler{userService: users}
}

func (h *UsersHandler) ping(w http.ResponseWriter, r *http.Request) {
	type PingResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	render.JSON(w, PingResponse{Status: render.StatusSuccess, Message: "pong!"})
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateUserRequest struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	type CreateUserSuccessResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	data, err := render.BindAndValidate[CreateUserRequest](w, r)
	if err != nil {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), data.Username, data.Email, data.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.Fail(w, "Sorry. That user already exists.", http.StatusBadRequest)
		default:
			render.Fail(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	render.JSONWithStatus(w, CreateUserSuccessResponse{
		Status:  render.StatusSuccess,
		Message: fmt.Sprintf("%s was added!", user.Email),
	}, http.StatusCreated)
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	type GetUserSuccessResponse struct {
		Status string     `json:"status"`
		Data   PublicUser `json:"data"`
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		// Non numeric ids are reported the same way as missing users
		render.Fail(w, "User does not exist.", http.StatusNotFound)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.Fail(w, "User does not exist.", http.StatusNotFound)
		default:
			render.Fail(w, "Internal server error.", http.StatusInternalServerError)
		}
		return
	}

	render.JSON(w, GetUserSuccessResponse{Status: render.StatusSuccess, Data: NewPublicUser(user)})
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	type UserList struct {
		Users []PublicUser `json:"users"`
	}
	type ListUsersSuccessResponse struct {
		Status string   `json:"status"`
		Data   UserList `json:"data"`
	}

	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		render.Fail(w, "Internal server error.", http.StatusInternalServerError)
		return
	}

	public := make([]PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, NewPublicUser(u))
	}

	render.JSON(w, ListUsersSuccessResponse{
		Status: render.StatusSuccess,
		Data:   UserList{Users: public},
	})
}
