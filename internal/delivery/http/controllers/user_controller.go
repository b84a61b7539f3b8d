package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventcatalog/internal/delivery/http/helpers"
	"eventcatalog/internal/domain"
)

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Validate implements Validator.
func (c CreateUserRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.RecordService
}

func NewUserController(logger *slog.Logger, svc domain.RecordService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// ListUsers godoc
// @Summary List users
// @Description Returns all users, or only those whose name equals the name query parameter exactly.
// @Tags users
// @Produce json
// @Param name query string false "Exact, case-sensitive display name"
// @Success 200 {array} domain.User
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [get]
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := c.Service.ListUsers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID} [get]
func (c *UserController) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := c.Service.GetUser(r.Context(), domain.UserID(id))
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "user not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create a user
// @Description Stores a display identity. Names are not unique at this layer.
// @Tags users
// @Accept json
// @Produce json
// @Param user body CreateUserRequest true "Name and optional image URL"
// @Success 201 {object} domain.User "the stored user with its id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users [post]
func (c *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user := domain.NewUser(req.Name, req.Image)
	if err := c.Service.CreateUser(r.Context(), user); err != nil {
		writeServiceError(c.Logger, w, r, err, "")
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, user)
}
