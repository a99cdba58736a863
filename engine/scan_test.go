package engine

import (
	"testing"
	"time"

	"habitshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{ID: "user-1", Username: "alice", DisplayName: "Alice"}
}

func scanAt(t *testing.T, habits []*models.Habit, now time.Time, existing ScanResult) ScanResult {
	t.Helper()
	notifIDs := make(map[string]bool)
	for _, n := range existing.Notifications {
		notifIDs[n.ID] = true
	}
	achIDs := make(map[string]bool)
	for _, a := range existing.Achievements {
		achIDs[a.ID] = true
	}
	return RunScan(ScanInput{
		User:                    testUser(),
		Habits:                  habits,
		ExistingNotificationIDs: notifIDs,
		ExistingAchievementIDs:  achIDs,
		Now:                     now,
	})
}

func streakHabit(days int) *models.Habit {
	h := newHabit(models.FrequencyDaily, 0, 0)
	for i := 1; i <= days; i++ {
		mark(h, i, models.StatusDone)
	}
	return h
}

func TestRunScan_MultiMilestoneJump(t *testing.T) {
	// A 31-day streak with no prior achievements awards all three tiers in
	// one pass.
	h := streakHabit(31)

	result := scanAt(t, []*models.Habit{h}, testNow, ScanResult{})

	require.Len(t, result.Achievements, 3)
	assert.Equal(t, 11, result.Achievements[0].Milestone)
	assert.Equal(t, models.BadgeBronze, result.Achievements[0].Badge)
	assert.Equal(t, 21, result.Achievements[1].Milestone)
	assert.Equal(t, models.BadgeSilver, result.Achievements[1].Badge)
	assert.Equal(t, 31, result.Achievements[2].Milestone)
	assert.Equal(t, models.BadgeGold, result.Achievements[2].Badge)

	// Each achievement gets a celebratory notification.
	celebratory := 0
	for _, n := range result.Notifications {
		if n.Type == models.NotificationAchievement {
			celebratory++
		}
	}
	assert.Equal(t, 3, celebratory)
}

func TestRunScan_Idempotent(t *testing.T) {
	h := streakHabit(12)

	first := scanAt(t, []*models.Habit{h}, testNow, ScanResult{})
	require.Len(t, first.Achievements, 1)

	second := scanAt(t, []*models.Habit{h}, testNow, first)
	assert.Empty(t, second.Achievements)
	assert.Empty(t, second.Notifications)
}

func TestRunScan_NoMilestoneBelowThreshold(t *testing.T) {
	h := streakHabit(10)

	result := scanAt(t, []*models.Habit{h}, testNow, ScanResult{})

	assert.Empty(t, result.Achievements)
}

func TestRunScan_RiskAfterCutoff(t *testing.T) {
	h := streakHabit(3) // streak alive, today still pending
	evening := time.Date(2025, time.March, 12, 20, 30, 0, 0, time.Local)

	result := scanAt(t, []*models.Habit{h}, evening, ScanResult{})

	require.Len(t, result.Notifications, 1)
	n := result.Notifications[0]
	assert.Equal(t, models.NotificationStreakRisk, n.Type)
	assert.Equal(t, models.StreakRiskID(h.ID, "2025-03-12"), n.ID)

	// Same evening, second device: the existing id suppresses a duplicate.
	again := scanAt(t, []*models.Habit{h}, evening, result)
	assert.Empty(t, again.Notifications)
}

func TestRunScan_NoRiskBeforeCutoff(t *testing.T) {
	h := streakHabit(3)

	result := scanAt(t, []*models.Habit{h}, testNow, ScanResult{}) // 10:00

	assert.Empty(t, result.Notifications)
}

func TestRunScan_NoRiskWhenTodayDone(t *testing.T) {
	h := streakHabit(3)
	mark(h, 0, models.StatusDone)
	evening := time.Date(2025, time.March, 12, 21, 0, 0, 0, time.Local)

	result := scanAt(t, []*models.Habit{h}, evening, ScanResult{})

	assert.Empty(t, result.Notifications)
}

func TestRunScan_ArchivedHabitSkipped(t *testing.T) {
	h := streakHabit(31)
	h.Completed = true
	evening := time.Date(2025, time.March, 12, 21, 0, 0, 0, time.Local)

	result := scanAt(t, []*models.Habit{h}, evening, ScanResult{})

	assert.Empty(t, result.Achievements)
	assert.Empty(t, result.Notifications)
}

func TestRunScan_DailyReminder(t *testing.T) {
	user := testUser()
	user.DailyReminderTime = "09:00"

	result := RunScan(ScanInput{
		User:                    user,
		ExistingNotificationIDs: map[string]bool{},
		ExistingAchievementIDs:  map[string]bool{},
		Now:                     testNow, // 10:00
	})

	require.Len(t, result.Notifications, 1)
	assert.Equal(t, models.NotificationReminder, result.Notifications[0].Type)
	assert.Equal(t, models.ReminderID(user.ID, "2025-03-12"), result.Notifications[0].ID)
}

func TestRunScan_ReminderNotDueYet(t *testing.T) {
	user := testUser()
	user.DailyReminderTime = "18:00"

	result := RunScan(ScanInput{
		User:                    user,
		ExistingNotificationIDs: map[string]bool{},
		ExistingAchievementIDs:  map[string]bool{},
		Now:                     testNow, // 10:00
	})

	assert.Empty(t, result.Notifications)
}

func TestRunScan_NoReminderConfigured(t *testing.T) {
	result := RunScan(ScanInput{
		User:                    testUser(),
		ExistingNotificationIDs: map[string]bool{},
		ExistingAchievementIDs:  map[string]bool{},
		Now:                     testNow,
	})

	assert.Empty(t, result.Notifications)
}
