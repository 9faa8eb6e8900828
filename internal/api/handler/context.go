package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/ports"
)

// ctxCaller extracts the resolved caller injected by the Auth and RoleGate
// middleware and fast-fails before any service call: a non-empty role proves
// the gate ran, a non-empty principal proves authentication ran.
func ctxCaller(c echo.Context) (ports.Caller, error) {
	principalID, _ := c.Get("principal_id").(string)
	if principalID == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ := c.Get("role").(string)
	if role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusForbidden, "missing resolved role")
	}

	return ports.Caller{ProfileID: principalID, Role: role}, nil
}

// ctxPrincipal extracts just the authenticated principal id, for routes that
// require sign-in but no particular role.
func ctxPrincipal(c echo.Context) (string, error) {
	principalID, _ := c.Get("principal_id").(string)
	if principalID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return principalID, nil
}
