package models

// Group is a set of users tracking habits together. Admins is always a
// non-empty subset of Members; the last admin can never be demoted or
// removed.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
	Admins  []string `json:"admins"`
}

// IsMember reports whether userID belongs to the group.
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsAdmin reports whether userID administers the group.
func (g *Group) IsAdmin(userID string) bool {
	for _, a := range g.Admins {
		if a == userID {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one ranked member of a group leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Rank        int    `json:"rank"`
	Score       int    `json:"score"` // completion percentage, 0-100
}

// CreateGroupRequest is the payload for creating a group
type CreateGroupRequest struct {
	Name string `json:"name"`
}

// GroupMemberRequest names the member an admin action targets
type GroupMemberRequest struct {
	UserID string `json:"user_id"`
}
