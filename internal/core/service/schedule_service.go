package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/streetfare/booking-api/internal/api/metrics"
	"github.com/streetfare/booking-api/internal/core/domain"
	"github.com/streetfare/booking-api/internal/core/ports"
)

// ScheduleService serves the public read-only day view: accepted requests in
// a day window, annotated with the accepted truck's display name.
type ScheduleService struct {
	requests ports.RequestRepository
	trucks   ports.TruckRepository
	logger   zerolog.Logger
}

func NewScheduleService(requests ports.RequestRepository, trucks ports.TruckRepository, logger zerolog.Logger) *ScheduleService {
	return &ScheduleService{requests: requests, trucks: trucks, logger: logger}
}

// DaySchedule returns the accepted bookings whose start time falls in the
// UTC window for the given local calendar day. An empty day is an empty
// list, not an error.
func (s *ScheduleService) DaySchedule(ctx context.Context, day, timezone string) (*ports.DayScheduleResult, error) {
	start, end, err := DayWindowUTC(day, timezone)
	if err != nil {
		return nil, err
	}

	requests, err := s.requests.ListAcceptedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]ports.ScheduleEntry, 0, len(requests))
	for _, r := range requests {
		name := fallbackTruckName
		if r.AcceptedTruckID != "" {
			truck, err := s.trucks.FindByID(ctx, r.AcceptedTruckID)
			if err != nil {
				if !errors.Is(err, domain.ErrTruckNotFound) {
					return nil, err
				}
				s.logger.Warn().Str("truck_id", r.AcceptedTruckID).Msg("accepted truck missing from schedule join")
			} else {
				name = truck.DisplayName
			}
		}
		entries = append(entries, ports.ScheduleEntry{
			RequestID:    r.ID,
			TruckName:    name,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			LocationName: r.LocationName,
		})
	}

	metrics.ScheduleQueriesTotal.Inc()
	return &ports.DayScheduleResult{
		Day:         day,
		Timezone:    timezone,
		WindowStart: start,
		WindowEnd:   end,
		Entries:     entries,
	}, nil
}
