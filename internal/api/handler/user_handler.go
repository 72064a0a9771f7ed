package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/cache"
	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// UserHandler serves the admin user-management screens.
type UserHandler struct {
	mirror   *cache.Cache[domain.User]
	users    ports.UserAPI
	activity ports.ActivityRecorder
}

func NewUserHandler(mirror *cache.Cache[domain.User], users ports.UserAPI, activity ports.ActivityRecorder) *UserHandler {
	return &UserHandler{mirror: mirror, users: users, activity: activity}
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"     validate:"required,oneof=admin agent technician"`
	Password string `json:"password" validate:"required,min=6"`
}

// updateUserRequest leaves the password optional: an empty password means
// "keep the current one" and is stripped before the upstream call.
type updateUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Role     string `json:"role"     validate:"required,oneof=admin agent technician"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

func (h *UserHandler) List(c echo.Context) error {
	return respondList(c, h.mirror)
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	created, err := h.mirror.Create(c.Request().Context(), domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	created.Password = ""
	h.activity.Record(c.Request().Context(), "create", "users", created.ID)
	return c.JSON(http.StatusCreated, created)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	updated, err := h.mirror.Update(c.Request().Context(), id, domain.User{
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	updated.Password = ""
	h.activity.Record(c.Request().Context(), "update", "users", id)
	return c.JSON(http.StatusOK, updated)
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.mirror.Remove(c.Request().Context(), id); err != nil {
		return err
	}
	h.activity.Record(c.Request().Context(), "delete", "users", id)
	return c.NoContent(http.StatusNoContent)
}

// Technicians returns the assignable-technician roster straight from the
// backend; the roster is small and changes rarely enough that it is not
// mirrored separately.
func (h *UserHandler) Technicians(c echo.Context) error {
	techs, err := h.users.Technicians(c.Request().Context())
	if err != nil {
		return err
	}
	if techs == nil {
		techs = []domain.User{}
	}
	return c.JSON(http.StatusOK, listResponse[domain.User]{Data: techs})
}
