package domain

import (
	"fmt"
	"time"
)

// Period selects a reporting window evaluated against the current date.
type Period string

const (
	PeriodAll       Period = "all"
	PeriodToday     Period = "today"
	PeriodThisWeek  Period = "this_week"
	PeriodThisMonth Period = "this_month"
)

// ParsePeriod validates a period selector, accepting the short aliases the
// admin UI sends. An empty selector means all.
func ParsePeriod(raw string) (Period, error) {
	switch raw {
	case "", "all":
		return PeriodAll, nil
	case "today":
		return PeriodToday, nil
	case "week", "this_week":
		return PeriodThisWeek, nil
	case "month", "this_month":
		return PeriodThisMonth, nil
	}
	return "", fmt.Errorf("unknown period %q", raw)
}

// Contains reports whether date falls inside the window ending at now.
// this_week is the trailing 7 calendar days including today, not an ISO week.
func (p Period) Contains(date, now time.Time) bool {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p {
	case PeriodToday:
		return !date.Before(startOfToday)
	case PeriodThisWeek:
		return !date.Before(startOfToday.AddDate(0, 0, -6))
	case PeriodThisMonth:
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return !date.Before(startOfMonth)
	default:
		return true
	}
}
