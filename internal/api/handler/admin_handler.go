package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// AdminHandler owns the admin-only surface: user role assignment, the truck
// overview, and releases. Every route behind it is gated to the admin role.
type AdminHandler struct {
	identity ports.IdentityService
	trucks   ports.TruckService
	releases ports.ReleaseService
}

func NewAdminHandler(identity ports.IdentityService, trucks ports.TruckService, releases ports.ReleaseService) *AdminHandler {
	return &AdminHandler{identity: identity, trucks: trucks, releases: releases}
}

// --- Users ---

type userResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type userListResponse struct {
	Data []userResponse `json:"data"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

// ListUsers handles GET /v1/admin/users.
//
// @Summary      List recent users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	profiles, err := h.identity.ListUsers(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	data := make([]userResponse, len(profiles))
	for i, p := range profiles {
		data[i] = userResponse{
			ID:        p.ID,
			Role:      p.Role,
			FullName:  p.FullName,
			Email:     p.Email,
			CreatedAt: p.CreatedAt.UTC(),
		}
	}
	return c.JSON(http.StatusOK, userListResponse{Data: data})
}

// AssignRole handles PUT /v1/admin/users/:id/role. An empty role revokes the
// user's access, returning them to the waiting state.
//
// @Summary      Assign or revoke a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string             true  "Profile id"
// @Param        body  body  assignRoleRequest  true  "New role"
// @Success      204   "assigned"
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/users/{id}/role [put]
func (h *AdminHandler) AssignRole(c echo.Context) error {
	var req assignRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.identity.AssignRole(c.Request().Context(), caller, c.Param("id"), req.Role); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Trucks ---

type truckListResponse struct {
	Data []truckResponse `json:"data"`
}

// ListTrucks handles GET /v1/admin/trucks.
//
// @Summary      List recent trucks
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  truckListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/trucks [get]
func (h *AdminHandler) ListTrucks(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	trucks, err := h.trucks.ListAll(c.Request().Context(), caller)
	if err != nil {
		return err
	}

	data := make([]truckResponse, len(trucks))
	for i, t := range trucks {
		data[i] = toTruckResponse(t)
	}
	return c.JSON(http.StatusOK, truckListResponse{Data: data})
}

// --- Releases ---

type createReleaseRequest struct {
	Version string `json:"version" validate:"required"`
	Notes   string `json:"notes"`
}

type releaseResponse struct {
	ID        string    `json:"id"`
	Version   string    `json:"version"`
	Notes     string    `json:"notes,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toReleaseResponse(r *domain.Release) releaseResponse {
	return releaseResponse{
		ID:        r.ID,
		Version:   r.Version,
		Notes:     r.Notes,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// CreateRelease handles POST /v1/admin/releases. Releases are created
// inactive and activated separately.
//
// @Summary      Create a release
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createReleaseRequest  true  "Release details"
// @Success      201   {object}  releaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/admin/releases [post]
func (h *AdminHandler) CreateRelease(c echo.Context) error {
	var req createReleaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	release, err := h.releases.Create(c.Request().Context(), caller, req.Version, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReleaseResponse(release))
}

// ActivateRelease handles POST /v1/admin/releases/:id/activate.
//
// @Summary      Activate a release
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Release id"
// @Success      204  "activated"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/releases/{id}/activate [post]
func (h *AdminHandler) ActivateRelease(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.releases.Activate(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ActiveRelease handles GET /v1/releases/active (public). Responds with a
// null release when none is active.
//
// @Summary      Currently active release
// @Tags         releases
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /v1/releases/active [get]
func (h *AdminHandler) ActiveRelease(c echo.Context) error {
	release, err := h.releases.Active(c.Request().Context())
	if err != nil {
		return err
	}
	if release == nil {
		return c.JSON(http.StatusOK, map[string]any{"release": nil})
	}
	resp := toReleaseResponse(release)
	return c.JSON(http.StatusOK, map[string]any{"release": resp})
}
