package service

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculatePeriodRange(t *testing.T) {
	tests := []struct {
		name      string
		period    string
		target    time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"day", "day", time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC), date(2026, 3, 4), date(2026, 3, 5)},
		{"week from wednesday", "week", date(2026, 3, 4), date(2026, 3, 2), date(2026, 3, 9)},
		{"week from sunday", "week", date(2026, 3, 8), date(2026, 3, 2), date(2026, 3, 9)},
		{"unknown period is a week", "quarter", date(2026, 3, 4), date(2026, 3, 2), date(2026, 3, 9)},
		{"fortnight", "fortnight", date(2026, 3, 4), date(2026, 2, 23), date(2026, 3, 9)},
		{"fortnight second week", "fortnight", date(2026, 2, 25), date(2026, 2, 23), date(2026, 3, 9)},
		{"fortnight before anchor", "fortnight", date(2023, 12, 28), date(2023, 12, 18), date(2024, 1, 1)},
		{"month", "month", date(2026, 2, 15), date(2026, 2, 1), date(2026, 3, 1)},
		{"december", "month", date(2025, 12, 31), date(2025, 12, 1), date(2026, 1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculatePeriodRange(tt.period, tt.target)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Errorf("CalculatePeriodRange(%s, %s) = [%s, %s), want [%s, %s)",
					tt.period, tt.target.Format(dateLayout),
					start.Format(dateLayout), end.Format(dateLayout),
					tt.wantStart.Format(dateLayout), tt.wantEnd.Format(dateLayout))
			}
		})
	}
}

func TestParseTime(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", now, false},
		{"09:30", time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC), false},
		{"2026-03-01 08:15", time.Date(2026, 3, 1, 8, 15, 0, 0, time.UTC), false},
		{"25:00", time.Time{}, true},
		{"9am", time.Time{}, true},
		{"2026-13-01 08:15", time.Time{}, true},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.in, now)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	got, err := ParseDate("", now)
	if err != nil || !got.Equal(date(2026, 3, 4)) {
		t.Errorf("ParseDate(\"\") = %v, %v", got, err)
	}
	got, err = ParseDate("2026-04-01", now)
	if err != nil || !got.Equal(date(2026, 4, 1)) {
		t.Errorf("ParseDate(2026-04-01) = %v, %v", got, err)
	}
	if _, err := ParseDate("01/04/2026", now); err == nil {
		t.Error("wrong layout should fail")
	}
}
