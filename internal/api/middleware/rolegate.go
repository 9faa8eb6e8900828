package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/ports"
)

// RoleGate resolves the authenticated principal to a role and enforces
// role-based access. It distinguishes the gate states: an authenticated
// principal without a profile row or without an assigned role is forbidden
// (403), not unauthenticated (401). Runs after Auth.
func RoleGate(identity ports.IdentityService, allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principalID, _ := c.Get("principal_id").(string)
			if principalID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			id, err := identity.Resolve(c.Request().Context(), principalID)
			if err != nil {
				return err
			}
			if !id.ProfileExists {
				return echo.NewHTTPError(http.StatusForbidden, "profile not created yet")
			}
			if id.Role == "" {
				return echo.NewHTTPError(http.StatusForbidden, "waiting for role assignment")
			}
			if _, ok := allowed[id.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}

			c.Set("role", id.Role)
			c.Set("display_name", id.DisplayName)
			return next(c)
		}
	}
}
