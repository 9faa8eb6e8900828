package service

import (
	"fmt"
	"time"

	"github.com/streetfare/booking-api/internal/core/domain"
)

const dayFormat = "2006-01-02"

// DayWindowUTC converts a calendar day (YYYY-MM-DD) in an IANA timezone into
// the half-open UTC interval [start, end) covering local midnight to the next
// local midnight. The offset at each boundary is resolved independently, so
// on a DST transition day the window is 23 or 25 hours wide instead of 24.
func DayWindowUTC(day, timezone string) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown timezone %q", domain.ErrValidation, timezone)
	}

	parsed, err := time.ParseInLocation(dayFormat, day, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: day must be YYYY-MM-DD", domain.ErrValidation)
	}

	y, m, d := parsed.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)

	return start.UTC(), end.UTC(), nil
}
