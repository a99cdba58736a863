package repository

import (
	"database/sql"
	"fmt"

	"habitshare/models"
)

// AchievementRepository handles achievement database operations. Ids are
// deterministic over (user, habit, milestone); duplicate inserts are
// no-ops, which keeps the scan idempotent even across devices.
type AchievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates the repository and its schema
func NewAchievementRepository(db *sql.DB) (*AchievementRepository, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS achievements (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		habit_id TEXT NOT NULL,
		milestone INTEGER NOT NULL,
		badge TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create achievements table: %w", err)
	}

	return &AchievementRepository{db: db}, nil
}

// CreateBatch inserts a scan's achievements, ignoring duplicate ids
func (r *AchievementRepository) CreateBatch(achievements []models.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, a := range achievements {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO achievements (id, user_id, habit_id, milestone, badge, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			a.ID, a.UserID, a.HabitID, a.Milestone, a.Badge, a.CreatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForUser retrieves the user's achievements, newest first
func (r *AchievementRepository) ListForUser(userID string) ([]models.Achievement, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, habit_id, milestone, badge, created_at FROM achievements WHERE user_id = ? ORDER BY created_at DESC, id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []models.Achievement
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.HabitID, &a.Milestone, &a.Badge, &a.CreatedAt); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// IDsForUser returns the set of existing achievement ids, used by the
// scan's idempotency check.
func (r *AchievementRepository) IDsForUser(userID string) (map[string]bool, error) {
	rows, err := r.db.Query("SELECT id FROM achievements WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
