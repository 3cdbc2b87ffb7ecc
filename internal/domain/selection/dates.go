package selection

import (
	"fmt"
	"time"
)

// Date option labels offered for the date field.
const (
	DateToday     = "Today"
	DateTomorrow  = "Tomorrow"
	DateNextWeek  = "Next Week"
	DateNextMonth = "Next Month"
)

const daysPerWeek = 7

// DateOptions returns the fixed date labels in display order.
func DateOptions() []string {
	return []string{DateToday, DateTomorrow, DateNextWeek, DateNextMonth}
}

// ResolveDate maps a date label to the calendar day it names, relative to now.
// The returned time is truncated to midnight in now's location.
func ResolveDate(label string, now time.Time) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch label {
	case DateToday:
		return day, nil
	case DateTomorrow:
		return day.AddDate(0, 0, 1), nil
	case DateNextWeek:
		return day.AddDate(0, 0, daysPerWeek), nil
	case DateNextMonth:
		return day.AddDate(0, 1, 0), nil
	}
	return time.Time{}, fmt.Errorf("%q: %w", label, ErrUnknownDate)
}
