package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teamforge/identity-service/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// fast-fails before any service call: both role and subject must be present,
// since their presence proves the middleware ran.
func ctxClaims(c echo.Context) (role domain.Role, userID string, err error) {
	r, _ := c.Get("role").(string)
	userID, _ = c.Get("user_id").(string)
	if r == "" || userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Role(r), userID, nil
}

// requireSelfOrAdmin allows admins through and everyone else only when
// operating on their own record.
func requireSelfOrAdmin(c echo.Context, targetID string) error {
	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin && userID != targetID {
		return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
	}
	return nil
}
