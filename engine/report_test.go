package engine

import (
	"testing"
	"time"

	"habitshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport_CellsAndScore(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	mark(h, 0, models.StatusDone)    // Wednesday
	mark(h, 1, models.StatusNotDone) // Tuesday

	report := BuildReport(
		map[string]string{"user-1": "Alice"},
		map[string][]*models.Habit{"user-1": {h}},
		testWeek(),
	)

	require.Len(t, report.Rows, 1)
	require.Len(t, report.DayKeys, 7)
	assert.Equal(t, "2025-03-10", report.DayKeys[0])

	row := report.Rows[0]
	assert.Equal(t, "Alice", row.MemberName)
	assert.Equal(t, "Morning run", row.HabitTitle)
	assert.Equal(t, []string{CellBlank, CellNotDone, CellDone, CellBlank, CellBlank, CellBlank, CellBlank}, row.Days)
	assert.Equal(t, 14, row.TotalScore, "round(100*1/7)")
}

func TestBuildReport_ScoreMatchesLeaderboard(t *testing.T) {
	h := newHabit(models.FrequencyDaily, 0, 0)
	for i := 0; i <= 4; i++ {
		mark(h, i, models.StatusDone)
	}
	habits := []*models.Habit{h}

	report := BuildReport(
		map[string]string{"user-1": "Alice"},
		map[string][]*models.Habit{"user-1": habits},
		testWeek(),
	)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, Score(habits, testWeek()), report.Rows[0].TotalScore)
}

func TestBuildReport_DeterministicOrder(t *testing.T) {
	a := newHabit(models.FrequencyDaily, 0, 0)
	a.ID, a.UserID, a.Title = "ha", "user-2", "Stretch"
	b := newHabit(models.FrequencyDaily, 0, 0)
	b.ID, b.Title = "hb", "Run"
	b.CreatedAt = a.CreatedAt.Add(-time.Hour)
	c := newHabit(models.FrequencyDaily, 0, 0)
	c.ID, c.Title = "hc", "Read"

	report := BuildReport(
		map[string]string{"user-1": "Alice", "user-2": "Bob"},
		map[string][]*models.Habit{
			"user-2": {a},
			"user-1": {c, b},
		},
		testWeek(),
	)

	require.Len(t, report.Rows, 3)
	assert.Equal(t, "Run", report.Rows[0].HabitTitle) // user-1, oldest first
	assert.Equal(t, "Read", report.Rows[1].HabitTitle)
	assert.Equal(t, "Stretch", report.Rows[2].HabitTitle) // user-2 after user-1
}

func TestBuildReport_MemberWithoutHabits(t *testing.T) {
	report := BuildReport(
		map[string]string{"user-1": "Alice"},
		map[string][]*models.Habit{"user-1": nil},
		testWeek(),
	)

	assert.Empty(t, report.Rows)
	assert.Len(t, report.DayKeys, 7)
}
