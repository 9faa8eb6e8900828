package ports

import (
	"context"
	"time"
)

// ScheduleEntry is one accepted booking in the public day view, annotated
// with the accepted truck's display name.
type ScheduleEntry struct {
	RequestID    string
	TruckName    string
	StartTime    time.Time
	EndTime      time.Time
	LocationName string
}

// DayScheduleResult is the public projection for one calendar day.
type DayScheduleResult struct {
	Day         string
	Timezone    string
	WindowStart time.Time
	WindowEnd   time.Time
	Entries     []ScheduleEntry
}

// ScheduleService exposes the read-only public schedule.
type ScheduleService interface {
	DaySchedule(ctx context.Context, day, timezone string) (*DayScheduleResult, error)
}
