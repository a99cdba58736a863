package models

import (
	"fmt"
	"time"
)

// Milestones are the streak lengths that earn a badge, in ascending order.
var Milestones = []int{11, 21, 31}

// Badge tiers, one per milestone.
const (
	BadgeBronze = "BRONZE"
	BadgeSilver = "SILVER"
	BadgeGold   = "GOLD"
)

// BadgeForMilestone maps a milestone streak length to its badge tier.
func BadgeForMilestone(milestone int) string {
	switch milestone {
	case 11:
		return BadgeBronze
	case 21:
		return BadgeSilver
	case 31:
		return BadgeGold
	}
	return ""
}

// Achievement records that a user's habit crossed a streak milestone.
// Its ID is deterministic over (user, habit, milestone), so awarding the
// same milestone twice collides on the primary key and becomes a no-op.
type Achievement struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	HabitID   string    `json:"habit_id"`
	Milestone int       `json:"milestone"`
	Badge     string    `json:"badge"`
	CreatedAt time.Time `json:"created_at"`
}

// AchievementID builds the deterministic id for (user, habit, milestone).
func AchievementID(userID, habitID string, milestone int) string {
	return fmt.Sprintf("ach-%s-%s-%d", userID, habitID, milestone)
}
