package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamforge/identity-service/internal/api/metrics"
	"github.com/teamforge/identity-service/internal/core/ports"
)

type AuthHandler struct {
	users ports.UserService
	auth  ports.AuthService
}

func NewAuthHandler(users ports.UserService, auth ports.AuthService) *AuthHandler {
	return &AuthHandler{users: users, auth: auth}
}

// Register creates a new user account through the public registration flow.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "User registration payload"
// @Success      201   {object}  authResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pub, err := h.users.Register(c.Request().Context(), payload)
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(pub.Role)).Inc()
	resp := toUserResponse(*pub)
	return c.JSON(http.StatusCreated, authResponse{User: &resp})
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, pub, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	resp := toUserResponse(*pub)
	return c.JSON(http.StatusOK, authResponse{Token: token, User: &resp})
}
