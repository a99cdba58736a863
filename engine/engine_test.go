package engine

import (
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// testNow is a Wednesday morning; its week runs 2025-03-10 (Mon) through
// 2025-03-16 (Sun).
var testNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.Local)

func newHabit(freq models.Frequency, target, interval int) *models.Habit {
	return &models.Habit{
		ID:                "habit-1",
		UserID:            "user-1",
		Title:             "Morning run",
		Frequency:         freq,
		TargetDaysPerWeek: target,
		IntervalDays:      interval,
		Logs:              make(map[string]models.Log),
		CreatedAt:         testNow.AddDate(0, -1, 0),
	}
}

// mark records a status n days before testNow.
func mark(h *models.Habit, daysAgo int, status models.LogStatus) {
	key := dateutil.DayKey(dateutil.AddDays(testNow, -daysAgo))
	h.Logs[key] = models.Log{Date: key, Status: status, Timestamp: testNow}
}

func daysAgo(n int) time.Time {
	return dateutil.AddDays(testNow, -n)
}
