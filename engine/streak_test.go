package engine

import (
	"testing"

	"habitshare/models"

	"github.com/stretchr/testify/assert"
)

func TestStreak_ConsecutiveDays(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	mark(h, 0, models.StatusDone)
	mark(h, 1, models.StatusDone)
	mark(h, 2, models.StatusDone)
	mark(h, 3, models.StatusNotDone)

	assert.Equal(t, 3, Streak(h, testNow))
}

func TestStreak_GapBreaks(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	mark(h, 0, models.StatusDone)
	// yesterday absent
	mark(h, 2, models.StatusDone)

	assert.Equal(t, 1, Streak(h, testNow))
}

func TestStreak_PendingTodayDoesNotBreak(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	// today untouched, still time to complete it
	mark(h, 1, models.StatusDone)
	mark(h, 2, models.StatusDone)

	assert.Equal(t, 2, Streak(h, testNow))
}

func TestStreak_NotDoneTodayBreaks(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	mark(h, 0, models.StatusNotDone)
	mark(h, 1, models.StatusDone)

	assert.Equal(t, 0, Streak(h, testNow), "an explicit NOT_DONE today ends the streak immediately")
}

func TestStreak_NoLogs(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)

	assert.Equal(t, 0, Streak(h, testNow))
}

func TestStreak_ArchivedHabitStillComputed(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	h.Completed = true
	mark(h, 0, models.StatusDone)
	mark(h, 1, models.StatusDone)

	assert.Equal(t, 2, Streak(h, testNow))
}
