package engine

import (
	"testing"
	"time"

	"habitshare/models"

	"github.com/stretchr/testify/assert"
)

func TestCheckActionable_FutureDateDisabled(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)

	a := CheckActionable(h, daysAgo(-1), testNow)

	assert.False(t, a.Enabled)
	assert.Equal(t, "Future", a.Reason)
}

func TestCheckActionable_LaterTodayEnabled(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)

	// Same calendar day, later clock time: not "future".
	a := CheckActionable(h, testNow.Add(8*time.Hour), testNow)

	assert.True(t, a.Enabled)
}

func TestCheckActionable_DailyAlwaysEnabled(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	mark(h, 1, models.StatusDone)
	mark(h, 2, models.StatusNotDone)

	assert.True(t, CheckActionable(h, daysAgo(0), testNow).Enabled)
	assert.True(t, CheckActionable(h, daysAgo(5), testNow).Enabled)
}

func TestCheckActionable_WeeklyTargetMet(t *testing.T) {
	h := newHabit(models.FrequencyWeekly, 2, 0)
	mark(h, 1, models.StatusDone) // Tuesday
	mark(h, 2, models.StatusDone) // Monday

	a := CheckActionable(h, daysAgo(0), testNow)

	assert.False(t, a.Enabled)
	assert.Equal(t, "Weekly target met", a.Reason)
}

func TestCheckActionable_WeeklyDoneDayStaysToggleable(t *testing.T) {
	h := newHabit(models.FrequencyWeekly, 2, 0)
	mark(h, 1, models.StatusDone)
	mark(h, 2, models.StatusDone)

	// Undoing one of the completed days must remain possible.
	assert.True(t, CheckActionable(h, daysAgo(1), testNow).Enabled)
}

func TestCheckActionable_WeeklyNotDoneDayBlockedAtTarget(t *testing.T) {
	h := newHabit(models.FrequencyWeekly, 2, 0)
	mark(h, 1, models.StatusDone)
	mark(h, 2, models.StatusDone)
	mark(h, 0, models.StatusNotDone)

	// A NOT_DONE day is not DONE, so the met target blocks it too; only
	// completed days keep their undo path.
	assert.False(t, CheckActionable(h, daysAgo(0), testNow).Enabled)
}

func TestCheckActionable_WeeklyCountsOnlyTargetWeek(t *testing.T) {
	h := newHabit(models.FrequencyWeekly, 2, 0)
	mark(h, 7, models.StatusDone) // previous Wednesday
	mark(h, 8, models.StatusDone) // previous Tuesday

	// Last week's completions do not count against this week.
	assert.True(t, CheckActionable(h, daysAgo(0), testNow).Enabled)
}

func TestCheckActionable_IntervalGap(t *testing.T) {
	h := newHabit(models.FrequencyInterval, 0, 3)
	mark(h, 5, models.StatusDone) // day D

	within1 := CheckActionable(h, daysAgo(4), testNow) // D+1
	within2 := CheckActionable(h, daysAgo(3), testNow) // D+2
	atGap := CheckActionable(h, daysAgo(2), testNow)   // D+3

	assert.False(t, within1.Enabled)
	assert.Equal(t, "Wait 3 days", within1.Reason)
	assert.False(t, within2.Enabled)
	assert.True(t, atGap.Enabled)
}

func TestCheckActionable_IntervalIgnoresTargetItself(t *testing.T) {
	h := newHabit(models.FrequencyInterval, 0, 3)
	mark(h, 2, models.StatusDone)

	// The date's own DONE log is not a neighbor; undoing it is allowed.
	assert.True(t, CheckActionable(h, daysAgo(2), testNow).Enabled)
}

func TestCheckActionable_IntervalIgnoresNotDoneNeighbors(t *testing.T) {
	h := newHabit(models.FrequencyInterval, 0, 3)
	mark(h, 1, models.StatusNotDone)

	assert.True(t, CheckActionable(h, daysAgo(0), testNow).Enabled)
}
