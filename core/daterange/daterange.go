// Package daterange resolves named relative windows and user-supplied days
// into concrete UTC date ranges.
package daterange

import (
	"fmt"
	"time"

	"github.com/huangsam/gitreport/schema"
)

// DayLayout is the accepted format for explicit start and end days.
const DayLayout = "2006-01-02"

// DefaultWindow is applied when neither a shortcut nor explicit bounds are given.
const DefaultWindow = 7 * 24 * time.Hour

// Resolve maps a shortcut to a concrete range relative to now, in UTC.
// Weeks start on Monday. An unrecognized shortcut yields an empty range.
func Resolve(shortcut schema.DateShortcut, now time.Time) schema.DateRange {
	now = now.UTC()
	today := midnight(now)

	var start, end time.Time
	switch shortcut {
	case schema.Today:
		start, end = today, now
	case schema.Yesterday:
		start = today.AddDate(0, 0, -1)
		end = start.Add(24*time.Hour - time.Second)
	case schema.ThisWeek:
		start, end = weekStart(today), now
	case schema.LastWeek:
		thisWeek := weekStart(today)
		start = thisWeek.AddDate(0, 0, -7)
		end = thisWeek.Add(-time.Second)
	case schema.ThisMonth:
		start, end = monthStart(today), now
	case schema.LastMonth:
		thisMonth := monthStart(today)
		start = thisMonth.AddDate(0, -1, 0)
		end = thisMonth.Add(-time.Second)
	default:
		return schema.DateRange{}
	}
	return schema.DateRange{Start: &start, End: &end}
}

// Last returns the window of the given length ending at now.
func Last(window time.Duration, now time.Time) schema.DateRange {
	end := now.UTC()
	start := end.Add(-window)
	return schema.DateRange{Start: &start, End: &end}
}

// ParseDay parses a YYYY-MM-DD day as midnight UTC.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD format", s)
	}
	return t, nil
}

// ParseDayEnd parses a YYYY-MM-DD day as its last second in UTC, so that an
// explicit end day includes the commits made on it.
func ParseDayEnd(s string) (time.Time, error) {
	t, err := ParseDay(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.Add(24*time.Hour - time.Second), nil
}

// Label renders a range for report headers.
func Label(r schema.DateRange) string {
	switch {
	case r.Start != nil && r.End != nil:
		return fmt.Sprintf("%s to %s", r.Start.Format(DayLayout), r.End.Format(DayLayout))
	case r.Start != nil:
		return fmt.Sprintf("since %s", r.Start.Format(DayLayout))
	case r.End != nil:
		return fmt.Sprintf("until %s", r.End.Format(DayLayout))
	default:
		return "last 7 days"
	}
}

// ShortcutLabel renders a shortcut for the search-conditions line.
func ShortcutLabel(shortcut schema.DateShortcut) string {
	switch shortcut {
	case schema.Today:
		return "today"
	case schema.Yesterday:
		return "yesterday"
	case schema.ThisWeek:
		return "this week"
	case schema.LastWeek:
		return "last week"
	case schema.ThisMonth:
		return "this month"
	case schema.LastMonth:
		return "last month"
	default:
		return string(shortcut)
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday on or before day.
func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}
