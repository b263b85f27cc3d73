package medleave

import (
	"fmt"
	"strings"
	"time"
)

// calendarDate drops the time of day and any UTC offset, keeping only the
// calendar day the timestamp names in its own location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TotalDays counts calendar days covered by the leave, both ends inclusive.
// A one-day leave has equal start and end dates.
func TotalDays(start, end time.Time) int {
	return int(calendarDate(end).Sub(calendarDate(start)).Hours()/24) + 1
}

func ValidateSubmit(input SubmitInput) error {
	if strings.TrimSpace(input.Folio) == "" {
		return fmt.Errorf("%w: folio is required", ErrValidation)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrValidation)
	}
	return nil
}
