package models

import (
	"fmt"
	"time"
)

// Notification types.
const (
	NotificationStreakRisk    = "streak_risk"
	NotificationAchievement   = "achievement"
	NotificationReminder      = "reminder"
	NotificationGroupActivity = "group_activity"
)

// Notification is a message surfaced to a user. Its ID encodes the
// semantic cause and the day, so re-running the emitting scan can never
// double-deliver for the same cause.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// StreakRiskID is the id of the "streak at risk" notification for a habit
// on a given day.
func StreakRiskID(habitID, day string) string {
	return fmt.Sprintf("streak-risk-%s-%s", habitID, day)
}

// ReminderID is the id of a user's daily reminder for a given day.
func ReminderID(userID, day string) string {
	return fmt.Sprintf("reminder-%s-%s", userID, day)
}

// AchievementNotificationID is the id of the celebratory notification that
// accompanies an achievement.
func AchievementNotificationID(achievementID string) string {
	return fmt.Sprintf("ach-notif-%s", achievementID)
}

// GroupActivityID is the id of the notification told to a fellow group
// member when someone completes a group habit on a given day.
func GroupActivityID(habitID, day, memberID string) string {
	return fmt.Sprintf("group-done-%s-%s-%s", habitID, day, memberID)
}
