package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/capitalcare/care-console/internal/core/domain"
	"github.com/capitalcare/care-console/internal/core/ports"
)

// AuthHandler owns the login/logout/profile surface.
type AuthHandler struct {
	store    ports.SessionStore
	auth     ports.AuthAPI
	activity ports.ActivityRecorder
}

func NewAuthHandler(store ports.SessionStore, auth ports.AuthAPI, activity ports.ActivityRecorder) *AuthHandler {
	return &AuthHandler{store: store, auth: auth, activity: activity}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type profileRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// Login authenticates against the care backend and opens a console session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	token, sess, err := h.store.Login(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}

	h.activity.Record(domain.NewContext(c.Request().Context(), sess), "login", "", 0)
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: sess.User})
}

// Logout destroys the caller's session. Safe to repeat.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	sess, ok := domain.SessionFromContext(ctx)
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}

	h.activity.Record(ctx, "logout", "", 0)
	if err := h.store.Logout(ctx, sess.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetProfile returns the caller's own record from the care backend.
func (h *AuthHandler) GetProfile(c echo.Context) error {
	user, err := h.auth.Profile(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile changes the caller's own record.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.auth.UpdateProfile(c.Request().Context(), ports.ProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
