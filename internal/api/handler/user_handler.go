package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/teamforge/identity-service/internal/api/metrics"
	"github.com/teamforge/identity-service/internal/core/ports"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Create registers a new user.
//
// @Summary      Create a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]any  true  "User registration payload"
// @Success      201   {object}  userResponse
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pub, err := h.service.Register(c.Request().Context(), payload)
	if err != nil {
		return err
	}

	metrics.UsersRegisteredTotal.WithLabelValues(string(pub.Role)).Inc()
	return c.JSON(http.StatusCreated, toUserResponse(*pub))
}

// Get returns a single user profile. Non-admins may only read their own.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id (wire form)"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if err := requireSelfOrAdmin(c, id); err != nil {
		return err
	}

	pub, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*pub))
}

// List returns a filtered, paginated user listing. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role       query     string  false  "Filter by role"
// @Param        is_active  query     bool    false  "Filter by active flag"
// @Param        search     query     string  false  "Substring match on name or email"
// @Param        page       query     int     false  "Page number (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Success      200  {object}  listUsersResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	input := ports.ListUsersInput{
		Role:   c.QueryParam("role"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "is_active must be a boolean")
		}
		input.IsActive = &active
	}
	input.Page, _ = strconv.Atoi(c.QueryParam("page"))
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))

	res, err := h.service.List(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(res))
}

// Update applies a partial patch to a user. Non-admins may only patch their
// own record.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "User id (wire form)"
// @Param        body  body      map[string]any  true  "Partial update payload"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id := c.Param("id")
	if err := requireSelfOrAdmin(c, id); err != nil {
		return err
	}

	var payload map[string]any
	if err := c.Bind(&payload); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	pub, err := h.service.Update(c.Request().Context(), id, payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*pub))
}

// Deactivate soft-deletes a user. Admin only.
//
// @Summary      Deactivate a user
// @Tags         users
// @Param        id  path  string  true  "User id (wire form)"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Deactivate(c echo.Context) error {
	if _, err := h.service.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
