package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/core/ports"
)

// ScheduleHandler serves the public day schedule.
type ScheduleHandler struct {
	service ports.ScheduleService
	// defaultTimezone is used when the query omits tz; the day defaults to
	// today in that zone.
	defaultTimezone string
}

func NewScheduleHandler(service ports.ScheduleService, defaultTimezone string) *ScheduleHandler {
	return &ScheduleHandler{service: service, defaultTimezone: defaultTimezone}
}

type scheduleEntryResponse struct {
	RequestID    string    `json:"request_id"`
	TruckName    string    `json:"truck_name"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	LocationName string    `json:"location_name"`
}

type dayScheduleResponse struct {
	Day         string                  `json:"day"`
	Timezone    string                  `json:"timezone"`
	WindowStart time.Time               `json:"window_start"`
	WindowEnd   time.Time               `json:"window_end"`
	Entries     []scheduleEntryResponse `json:"entries"`
}

// Day handles GET /v1/schedule — the public accepted-bookings view for one
// local calendar day.
//
// @Summary      Public day schedule
// @Tags         schedule
// @Produce      json
// @Param        day  query     string  false  "Calendar day (YYYY-MM-DD), defaults to today"
// @Param        tz   query     string  false  "IANA timezone, defaults to the configured zone"
// @Success      200  {object}  dayScheduleResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/schedule [get]
func (h *ScheduleHandler) Day(c echo.Context) error {
	tz := c.QueryParam("tz")
	if tz == "" {
		tz = h.defaultTimezone
	}

	day := c.QueryParam("day")
	if day == "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown timezone")
		}
		day = time.Now().In(loc).Format("2006-01-02")
	}

	result, err := h.service.DaySchedule(c.Request().Context(), day, tz)
	if err != nil {
		return err
	}

	entries := make([]scheduleEntryResponse, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = scheduleEntryResponse{
			RequestID:    e.RequestID,
			TruckName:    e.TruckName,
			StartTime:    e.StartTime.UTC(),
			EndTime:      e.EndTime.UTC(),
			LocationName: e.LocationName,
		}
	}

	return c.JSON(http.StatusOK, dayScheduleResponse{
		Day:         result.Day,
		Timezone:    result.Timezone,
		WindowStart: result.WindowStart,
		WindowEnd:   result.WindowEnd,
		Entries:     entries,
	})
}
