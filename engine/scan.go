package engine

import (
	"fmt"
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// DefaultRiskCutoffHour is the local hour after which an uncompleted
// streak counts as at risk.
const DefaultRiskCutoffHour = 20

// ScanInput is everything one rule-engine pass needs: the user's habits,
// snapshots of already-persisted notification/achievement ids for the
// idempotency checks, and the clock.
type ScanInput struct {
	User                    *models.User
	Habits                  []*models.Habit
	ExistingNotificationIDs map[string]bool
	ExistingAchievementIDs  map[string]bool
	Now                     time.Time
	RiskCutoffHour          int
}

// ScanResult is the batch of writes one pass produced. Re-running the
// scan with unchanged input yields an empty result.
type ScanResult struct {
	Achievements  []models.Achievement  `json:"achievements"`
	Notifications []models.Notification `json:"notifications"`
}

// RunScan applies the achievement and notification rules over a user's
// non-archived habits and returns the new documents to persist. It is a
// pure function: every emission carries a deterministic id derived from
// its cause, and ids already present in the input snapshots (or emitted
// earlier in the same pass) are skipped. Archived habits are excluded
// entirely; their streaks stay computable for badge display but they can
// no longer be at risk or cross milestones.
func RunScan(in ScanInput) ScanResult {
	cutoff := in.RiskCutoffHour
	if cutoff == 0 {
		cutoff = DefaultRiskCutoffHour
	}
	today := dateutil.DayKey(in.Now)

	var result ScanResult
	pendingNotifs := make(map[string]bool)
	pendingAchs := make(map[string]bool)

	emitNotification := func(n models.Notification) {
		if in.ExistingNotificationIDs[n.ID] || pendingNotifs[n.ID] {
			return
		}
		pendingNotifs[n.ID] = true
		result.Notifications = append(result.Notifications, n)
	}

	for _, h := range in.Habits {
		if h.Completed {
			continue
		}
		streak := Streak(h, in.Now)

		if in.Now.Hour() >= cutoff && streak > 0 && h.LogStatusAt(today) != models.StatusDone {
			emitNotification(models.Notification{
				ID:        models.StreakRiskID(h.ID, today),
				UserID:    in.User.ID,
				Type:      models.NotificationStreakRisk,
				Message:   fmt.Sprintf("Your %d-day streak on %q ends tonight unless you complete it", streak, h.Title),
				CreatedAt: in.Now,
			})
		}

		for _, milestone := range models.Milestones {
			if streak < milestone {
				break
			}
			achID := models.AchievementID(in.User.ID, h.ID, milestone)
			if in.ExistingAchievementIDs[achID] || pendingAchs[achID] {
				continue
			}
			pendingAchs[achID] = true
			badge := models.BadgeForMilestone(milestone)
			result.Achievements = append(result.Achievements, models.Achievement{
				ID:        achID,
				UserID:    in.User.ID,
				HabitID:   h.ID,
				Milestone: milestone,
				Badge:     badge,
				CreatedAt: in.Now,
			})
			emitNotification(models.Notification{
				ID:        models.AchievementNotificationID(achID),
				UserID:    in.User.ID,
				Type:      models.NotificationAchievement,
				Message:   fmt.Sprintf("%s badge earned: a %d-day streak on %q", badge, milestone, h.Title),
				CreatedAt: in.Now,
			})
		}
	}

	if reminderDue(in.User.DailyReminderTime, in.Now) {
		emitNotification(models.Notification{
			ID:        models.ReminderID(in.User.ID, today),
			UserID:    in.User.ID,
			Type:      models.NotificationReminder,
			Message:   "Time to check in on your habits",
			CreatedAt: in.Now,
		})
	}

	return result
}

// reminderDue reports whether now is at or past the user's configured
// HH:MM reminder time today. An empty or malformed setting disables
// reminders.
func reminderDue(reminderTime string, now time.Time) bool {
	if reminderTime == "" {
		return false
	}
	t, err := time.Parse("15:04", reminderTime)
	if err != nil {
		return false
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	return !now.Before(due)
}
