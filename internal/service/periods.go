package service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// fortnightAnchor is the Monday that fortnights are counted from.
var fortnightAnchor = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// CalculatePeriodRange returns [start, end) of the day, week, fortnight or
// month containing targetDate. Weeks start on Monday; anything else is a
// week.
func CalculatePeriodRange(period string, targetDate time.Time) (time.Time, time.Time) {
	day := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())

	switch period {
	case "day":
		return day, day.AddDate(0, 0, 1)

	case "fortnight":
		monday := startOfWeek(day)
		days := daysBetween(fortnightAnchor, monday)
		offset := days % 14
		if offset < 0 {
			offset += 14
		}
		start := monday.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 14)

	case "month":
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
		return start, start.AddDate(0, 1, 0)

	default:
		start := startOfWeek(day)
		return start, start.AddDate(0, 0, 7)
	}
}

func startOfWeek(day time.Time) time.Time {
	daysFromMonday := int(day.Weekday()-time.Monday+7) % 7
	return day.AddDate(0, 0, -daysFromMonday)
}

// daysBetween counts calendar days, ignoring the clock and zone.
func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// ParseDate parses YYYY-MM-DD in the local zone. An empty string is today.
func ParseDate(dateStr string, now time.Time) (time.Time, error) {
	if dateStr == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	parsed, err := time.ParseInLocation(dateLayout, dateStr, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

// ParseTime parses HH:MM (on now's date) or YYYY-MM-DD HH:MM. An empty
// string is now.
func ParseTime(timeStr string, now time.Time) (time.Time, error) {
	if timeStr == "" {
		return now, nil
	}

	if len(timeStr) == 5 && strings.Contains(timeStr, ":") {
		parsed, err := time.Parse("15:04", timeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid time format, expected HH:MM: %w", err)
		}
		return time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location()), nil
	}

	if len(timeStr) == 16 && strings.Count(timeStr, "-") == 2 && strings.Contains(timeStr, ":") {
		parsed, err := time.ParseInLocation("2006-01-02 15:04", timeStr, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid datetime format, expected YYYY-MM-DD HH:MM: %w", err)
		}
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("invalid time format, expected HH:MM or YYYY-MM-DD HH:MM")
}
