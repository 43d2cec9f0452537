// Package worktime converts and sums labour time. Minutes are the unit of
// record; hours are derived for display and never rounded.
package worktime

import (
	"fmt"
	"math"
	"time"

	"github.com/jesses-code-adventures/quote/internal/money"
)

const MinutesPerHour = 60

func HoursToMinutes(hours float64) (float64, error) {
	if err := money.CheckFinite("hoursToMinutes", hours); err != nil {
		return 0, err
	}
	return math.Round(hours * MinutesPerHour), nil
}

func MinutesToHours(minutes float64) (float64, error) {
	if err := money.CheckFinite("minutesToHours", minutes); err != nil {
		return 0, err
	}
	return minutes / MinutesPerHour, nil
}

// FormatHours renders minutes as hours with two decimals, e.g. 90 -> "1.50".
func FormatHours(minutes float64) (string, error) {
	hours, err := MinutesToHours(minutes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.2f", hours), nil
}

// SumTime adds minute values. No values sums to zero.
func SumTime(minutes ...float64) (float64, error) {
	total := 0.0
	for _, m := range minutes {
		if err := money.CheckFinite("sumTime", m); err != nil {
			return 0, err
		}
		total += m
	}
	return total, nil
}

// FormatDuration renders minutes as "2h 30m".
func FormatDuration(minutes float64) string {
	d := time.Duration(math.Round(minutes)) * time.Minute
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	mins := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh %dm", hours, mins)
}
