package engine

import (
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// Streak returns the current consecutive-day completion streak for a
// habit, relative to now. Today counts if it is already DONE. A today
// that is still pending does not break the streak (there is time left to
// complete it), so the scan continues from yesterday; a today explicitly
// marked NOT_DONE ends the streak at zero. Any earlier day that is
// NOT_DONE or has no log ends the walk. There are no grace days.
//
// The walk visits one day per streak unit and stops at the first break,
// so it runs in O(streak length) regardless of how much history the habit
// carries. Archived habits are still streak-calculable.
func Streak(h *models.Habit, now time.Time) int {
	day := dateutil.StartOfDay(now)
	switch h.LogStatusAt(dateutil.DayKey(day)) {
	case models.StatusNotDone:
		// An explicit failure today already broke the streak.
		return 0
	case models.StatusPending:
		day = dateutil.AddDays(day, -1)
	}

	streak := 0
	for h.LogStatusAt(dateutil.DayKey(day)) == models.StatusDone {
		streak++
		day = dateutil.AddDays(day, -1)
	}
	return streak
}
