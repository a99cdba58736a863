package repository

import (
	"database/sql"
	"fmt"

	"habitshare/models"
)

// NotificationRepository handles notification database operations.
// Notification ids are deterministic over their cause, so CreateBatch
// inserts with OR IGNORE: a colliding id means the same cause was already
// delivered and the insert quietly becomes a no-op.
type NotificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates the repository and its schema
func NewNotificationRepository(db *sql.DB) (*NotificationRepository, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		message TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create notifications table: %w", err)
	}

	return &NotificationRepository{db: db}, nil
}

// CreateBatch inserts a scan's notifications, ignoring duplicate ids
func (r *NotificationRepository) CreateBatch(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, n := range notifications {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO notifications (id, user_id, type, message, is_read, created_at) VALUES (?, ?, ?, ?, 0, ?)",
			n.ID, n.UserID, n.Type, n.Message, n.CreatedAt)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListForUser retrieves the user's notifications, newest first
func (r *NotificationRepository) ListForUser(userID string) ([]models.Notification, error) {
	rows, err := r.db.Query(
		"SELECT id, user_id, type, message, is_read, created_at FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// IDsForUser returns the set of existing notification ids, used by the
// scan's idempotency check.
func (r *NotificationRepository) IDsForUser(userID string) (map[string]bool, error) {
	rows, err := r.db.Query("SELECT id FROM notifications WHERE user_id = ?", userID)
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

// MarkRead flags a notification as read
func (r *NotificationRepository) MarkRead(id, userID string) error {
	res, err := r.db.Exec(
		"UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?",
		id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
