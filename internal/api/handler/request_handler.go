package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// RequestHandler handles HTTP requests for the truck request lifecycle.
type RequestHandler struct {
	service ports.RequestService
}

func NewRequestHandler(service ports.RequestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Create handles POST /v1/requests.
//
// @Summary      Create a truck request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRequestRequest  true  "Request details"
// @Success      201   {object}  requestResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/requests [post]
func (h *RequestHandler) Create(c echo.Context) error {
	var req createRequestRequest
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

	var location *domain.Coordinates
	if req.LocationLat != nil && req.LocationLng != nil {
		location = &domain.Coordinates{Lat: *req.LocationLat, Lng: *req.LocationLng}
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRequestInput{
		Caller:           caller,
		BusinessID:       req.BusinessID,
		RequestedTruckID: req.RequestedTruckID,
		BlanketRequest:   req.BlanketRequest,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		LocationName:     req.LocationName,
		Location:         location,
		Notes:            req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toRequestResponse(created))
}

// Accept handles POST /v1/requests/:id/accept.
//
// @Summary      Accept a pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true   "Request id"
// @Param        body  body      actAsTruckRequest  false  "Acting truck (admin only)"
// @Success      200   {object}  requestResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/requests/{id}/accept [post]
func (h *RequestHandler) Accept(c echo.Context) error {
	input, err := h.actAsTruckInput(c)
	if err != nil {
		return err
	}

	accepted, err := h.service.Accept(c.Request().Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(accepted))
}

// Ignore handles POST /v1/requests/:id/ignore.
//
// @Summary      Ignore a pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true   "Request id"
// @Param        body  body      actAsTruckRequest  false  "Acting truck (admin only)"
// @Success      204   "ignored"
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/requests/{id}/ignore [post]
func (h *RequestHandler) Ignore(c echo.Context) error {
	input, err := h.actAsTruckInput(c)
	if err != nil {
		return err
	}

	if err := h.service.Ignore(c.Request().Context(), input); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel handles POST /v1/requests/:id/cancel.
//
// @Summary      Cancel a pending request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request id"
// @Success      204  "cancelled"
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/requests/{id}/cancel [post]
func (h *RequestHandler) Cancel(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	if err := h.service.Cancel(c.Request().Context(), ports.CancelRequestInput{
		Caller:    caller,
		RequestID: c.Param("id"),
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Inbox handles GET /v1/requests/inbox: pending requests the caller's truck
// may still act on.
//
// @Summary      List the truck's pending inbox
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  requestListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/requests/inbox [get]
func (h *RequestHandler) Inbox(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	requests, err := h.service.Inbox(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestListResponse(requests))
}

// List handles GET /v1/requests: a business's own requests. Admins pass
// ?business_id= to list any business.
//
// @Summary      List a business's requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        business_id  query     string  false  "Business id (admin only)"
// @Success      200          {object}  requestListResponse
// @Failure      403          {object}  errorResponse
// @Router       /v1/requests [get]
func (h *RequestHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	requests, err := h.service.ListByBusiness(c.Request().Context(), caller, c.QueryParam("business_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestListResponse(requests))
}

func (h *RequestHandler) actAsTruckInput(c echo.Context) (ports.ActAsTruckInput, error) {
	caller, err := ctxCaller(c)
	if err != nil {
		return ports.ActAsTruckInput{}, err
	}

	// Body is optional: truck owners act as their own truck. Chunked requests
	// carry ContentLength -1, so the bind always runs and an empty body
	// surfaces as EOF rather than being skipped.
	var req actAsTruckRequest
	if err := c.Bind(&req); err != nil {
		var he *echo.HTTPError
		if !errors.As(err, &he) || !errors.Is(he.Internal, io.EOF) {
			return ports.ActAsTruckInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
		}
	}

	return ports.ActAsTruckInput{
		Caller:        caller,
		RequestID:     c.Param("id"),
		ActingTruckID: req.ActingTruckID,
	}, nil
}
