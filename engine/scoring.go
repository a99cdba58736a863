package engine

import (
	"math"
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// Window is an inclusive calendar-day range a score is computed over.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the inclusive day count of the window.
func (w Window) Days() int { return dateutil.DaysIn(w.Start, w.End) }

// Contains reports whether the day key falls inside the window.
func (w Window) Contains(key string) bool {
	d, err := dateutil.ParseDay(key)
	if err != nil {
		return false
	}
	return !d.Before(dateutil.StartOfDay(w.Start)) && !dateutil.AfterDay(d, w.End)
}

// WeekWindowFor is the Monday-start week containing now.
func WeekWindowFor(now time.Time) Window {
	start, end := dateutil.WeekWindow(now)
	return Window{Start: start, End: end}
}

// MonthWindowFor is the calendar month containing now.
func MonthWindowFor(now time.Time) Window {
	start, end := dateutil.MonthWindow(now)
	return Window{Start: start, End: end}
}

// HabitPoints computes a habit's expected and actual completion points
// within a window.
//
// Weekly habits expect a pro-rated share of their weekly target (floored
// to 1 so a short window never divides by zero) and cannot earn past it.
// Interval habits expect one completion per interval but earned points
// are uncapped, so finishing ahead of schedule still counts. Daily habits
// expect one completion per window day.
func HabitPoints(h *models.Habit, w Window) (expected, actual float64) {
	days := float64(w.Days())
	done := float64(doneInWindow(h, w))

	switch h.Frequency {
	case models.FrequencyWeekly:
		expected = days / 7 * float64(h.TargetDaysPerWeek)
		if expected < 1 {
			expected = 1
		}
		actual = math.Min(done, expected)
	case models.FrequencyInterval:
		expected = days / float64(h.IntervalDays)
		actual = done
	default:
		expected = days
		actual = done
	}
	return expected, actual
}

// Score aggregates HabitPoints over a member's habits into a normalized
// completion percentage in [0,100]. A member with no expected points
// scores 0. The same function backs both the live leaderboard and the
// Total Score column of exported reports, so the two always agree.
func Score(habits []*models.Habit, w Window) int {
	var total, earned float64
	for _, h := range habits {
		expected, actual := HabitPoints(h, w)
		total += expected
		earned += actual
	}
	if total == 0 {
		return 0
	}
	score := int(math.Round(100 * earned / total))
	if score > 100 {
		// Interval habits can earn past their expectation; the percentage
		// still tops out at 100.
		score = 100
	}
	return score
}

func doneInWindow(h *models.Habit, w Window) int {
	done := 0
	for key, l := range h.Logs {
		if l.Status == models.StatusDone && w.Contains(key) {
			done++
		}
	}
	return done
}
