package repository

import "habitshare/models"

// ScanStore adapts the repositories to the scan engine's store contract.
// The two CreateBatch calls are independent single-document writes; the
// batch needs no cross-document atomicity because every document's id is
// deterministic and a re-run fills in whatever a partial commit missed.
type ScanStore struct {
	Habits        *HabitRepository
	Notifications *NotificationRepository
	Achievements  *AchievementRepository
}

func (s *ScanStore) HabitsOwnedBy(userID string) ([]*models.Habit, error) {
	return s.Habits.ListOwnedBy(userID)
}

func (s *ScanStore) NotificationIDs(userID string) (map[string]bool, error) {
	return s.Notifications.IDsForUser(userID)
}

func (s *ScanStore) AchievementIDs(userID string) (map[string]bool, error) {
	return s.Achievements.IDsForUser(userID)
}

func (s *ScanStore) CommitScan(achievements []models.Achievement, notifications []models.Notification) error {
	if err := s.Achievements.CreateBatch(achievements); err != nil {
		return err
	}
	return s.Notifications.CreateBatch(notifications)
}
