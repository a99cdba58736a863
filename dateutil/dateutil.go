// Package dateutil provides calendar-day arithmetic for habit logs.
// Dates are treated as local calendar days keyed by "YYYY-MM-DD" strings;
// time-of-day never participates in day comparisons.
package dateutil

import (
	"math"
	"time"
)

// DayLayout is the canonical log key format.
const DayLayout = "2006-01-02"

// DayKey returns the local calendar-day key for t.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses a day key into local midnight of that day.
func ParseDay(key string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, key, time.Local)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// AfterDay reports whether a falls on a strictly later calendar day than b.
func AfterDay(a, b time.Time) bool {
	return StartOfDay(a).After(StartOfDay(b))
}

// DaysBetween returns the absolute number of calendar days between a and b.
// Rounding absorbs DST transitions, where a local day is not 24 hours.
func DaysBetween(a, b time.Time) int {
	d := int(math.Round(StartOfDay(a).Sub(StartOfDay(b)).Hours() / 24))
	if d < 0 {
		return -d
	}
	return d
}

// WeekStart returns local midnight of the Monday of the ISO week containing t.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	// time.Weekday counts Sunday as 0; shift so Monday is the week start.
	offset := (int(day.Weekday()) + 6) % 7
	return AddDays(day, -offset)
}

// WeekWindow returns the inclusive Monday..Sunday range containing t.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	start := WeekStart(t)
	return start, AddDays(start, 6)
}

// MonthWindow returns the inclusive first..last day range of t's month.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end := AddDays(start.AddDate(0, 1, 0), -1)
	return start, end
}

// DaysIn returns the inclusive day count of the range [start, end].
func DaysIn(start, end time.Time) int {
	return DaysBetween(end, start) + 1
}

// DayKeys returns the day keys of the inclusive range [start, end] in order.
func DayKeys(start, end time.Time) []string {
	n := DaysIn(start, end)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, DayKey(AddDays(start, i)))
	}
	return keys
}
