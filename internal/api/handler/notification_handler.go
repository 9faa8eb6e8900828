package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/ports"
)

const notificationPageLimit = 50

// NotificationHandler serves the caller's notification feed. The feed is
// read-only; rows are written by the fan-out workers.
type NotificationHandler struct {
	notifications ports.NotificationRepository
}

func NewNotificationHandler(notifications ports.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type notificationResponse struct {
	ID        string    `json:"id"`
	RequestID string    `json:"request_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type notificationListResponse struct {
	Data []notificationResponse `json:"data"`
}

// List handles GET /v1/notifications.
//
// @Summary      List the caller's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  notificationListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	caller, err := ctxCaller(c)
	if err != nil {
		return err
	}

	ns, err := h.notifications.ListByRecipient(c.Request().Context(), caller.ProfileID, notificationPageLimit)
	if err != nil {
		return err
	}

	data := make([]notificationResponse, len(ns))
	for i, n := range ns {
		data[i] = notificationResponse{
			ID:        n.ID,
			RequestID: n.RequestID,
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UTC(),
		}
	}
	return c.JSON(http.StatusOK, notificationListResponse{Data: data})
}
