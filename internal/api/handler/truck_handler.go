package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

type TruckHandler struct {
	service ports.TruckService
}

func NewTruckHandler(service ports.TruckService) *TruckHandler {
	return &TruckHandler{service: service}
}

type registerTruckRequest struct {
	// OwnerID is only honored for admin callers.
	OwnerID     string `json:"owner_id"`
	DisplayName string `json:"display_name" validate:"required"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

type truckResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTruckResponse(t *domain.Truck) truckResponse {
	return truckResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		DisplayName: t.DisplayName,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

// Register handles POST /v1/trucks.
//
// @Summary      Register a truck
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerTruckRequest  true  "Truck details"
// @Success      201   {object}  truckResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/trucks [post]
func (h *TruckHandler) Register(c echo.Context) error {
	var req registerTruckRequest
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

	truck, err := h.service.Register(c.Request().Context(), ports.RegisterTruckInput{
		Caller:      caller,
		OwnerID:     req.OwnerID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toTruckResponse(truck))
}

// SetActive handles PATCH /v1/trucks/:id/active.
//
// @Summary      Toggle a truck's active flag
// @Tags         trucks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string            true  "Truck id"
// @Param        body  body  setActiveRequest  true  "Active flag"
// @Success      204   "updated"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/trucks/{id}/active [patch]
func (h *TruckHandler) SetActive(c echo.Context) error {
	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.SetActive(c.Request().Context(), caller, c.Param("id"), req.Active); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
