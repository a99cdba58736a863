package engine

import "habitshare/models"

// MergeHabits materializes one habit view from the two update channels a
// client observes: the personal-habit feed (own) and the group-habit feed
// (observed). The group feed can lag behind a locally applied write, so
// observed entries authored by the current user are dropped and own
// entries win on any id collision. This keeps a stale group snapshot from
// overwriting a fresher personal one.
func MergeHabits(own, observed map[string]*models.Habit, currentUserID string) map[string]*models.Habit {
	merged := make(map[string]*models.Habit, len(own)+len(observed))
	for id, h := range observed {
		if h.UserID == currentUserID {
			continue
		}
		merged[id] = h
	}
	for id, h := range own {
		merged[id] = h
	}
	return merged
}
