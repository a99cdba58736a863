package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"habitshare/models"

	"github.com/google/uuid"
)

// ErrLastAdmin rejects demoting or removing a group's only admin.
var ErrLastAdmin = errors.New("a group must keep at least one admin")

// ErrNotMember rejects admin actions on users outside the group.
var ErrNotMember = errors.New("user is not a member of the group")

// GroupRepository handles group and membership database operations.
// Membership mutations re-read the authoritative rows inside a
// transaction before deciding, so a stale in-memory copy of the group can
// never sneak past the last-admin invariant.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates the repository and its schema
func NewGroupRepository(db *sql.DB) (*GroupRepository, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS groups (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS group_members (
		group_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (group_id, user_id)
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create group tables: %w", err)
	}

	return &GroupRepository{db: db}, nil
}

// Create makes a new group with the creator as its first admin
func (g *GroupRepository) Create(name, creatorID string) (*models.Group, error) {
	id := uuid.NewString()

	tx, err := g.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO groups (id, name) VALUES (?, ?)", id, name); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(
		"INSERT INTO group_members (group_id, user_id, is_admin) VALUES (?, ?, 1)",
		id, creatorID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return g.GetByID(id)
}

// GetByID retrieves a group with its members and admins
func (g *GroupRepository) GetByID(id string) (*models.Group, error) {
	group := &models.Group{ID: id}
	err := g.db.QueryRow("SELECT name FROM groups WHERE id = ?", id).Scan(&group.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := g.db.Query(
		"SELECT user_id, is_admin FROM group_members WHERE group_id = ? ORDER BY user_id", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		var isAdmin bool
		if err := rows.Scan(&userID, &isAdmin); err != nil {
			return nil, err
		}
		group.Members = append(group.Members, userID)
		if isAdmin {
			group.Admins = append(group.Admins, userID)
		}
	}
	return group, rows.Err()
}

// ListForUser retrieves all groups the user belongs to
func (g *GroupRepository) ListForUser(userID string) ([]*models.Group, error) {
	rows, err := g.db.Query(
		"SELECT group_id FROM group_members WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var groups []*models.Group
	for _, id := range ids {
		group, err := g.GetByID(id)
		if err != nil {
			return nil, err
		}
		if group != nil {
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// Join adds a user to a group; joining twice is a no-op
func (g *GroupRepository) Join(groupID, userID string) error {
	_, err := g.db.Exec(
		"INSERT OR IGNORE INTO group_members (group_id, user_id, is_admin) VALUES (?, ?, 0)",
		groupID, userID)
	return err
}

// Leave removes the user from the group. The group's only admin cannot
// leave without promoting someone first.
func (g *GroupRepository) Leave(groupID, userID string) error {
	return g.removeMember(groupID, userID)
}

// RemoveMember drops a member from the group, refusing to drop the sole
// admin.
func (g *GroupRepository) RemoveMember(groupID, userID string) error {
	return g.removeMember(groupID, userID)
}

// Promote grants admin to an existing member
func (g *GroupRepository) Promote(groupID, userID string) error {
	res, err := g.db.Exec(
		"UPDATE group_members SET is_admin = 1 WHERE group_id = ? AND user_id = ?",
		groupID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotMember
	}
	return nil
}

// Demote revokes admin from a member, refusing to demote the sole admin
func (g *GroupRepository) Demote(groupID, userID string) error {
	tx, err := g.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	isAdmin, admins, err := adminState(tx, groupID, userID)
	if err != nil {
		return err
	}
	if isAdmin && admins <= 1 {
		return ErrLastAdmin
	}

	res, err := tx.Exec(
		"UPDATE group_members SET is_admin = 0 WHERE group_id = ? AND user_id = ?",
		groupID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotMember
	}
	return tx.Commit()
}

func (g *GroupRepository) removeMember(groupID, userID string) error {
	tx, err := g.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	isAdmin, admins, err := adminState(tx, groupID, userID)
	if err != nil {
		return err
	}
	if isAdmin && admins <= 1 {
		return ErrLastAdmin
	}

	res, err := tx.Exec(
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotMember
	}
	return tx.Commit()
}

// adminState re-reads the authoritative membership rows for the checks
// guarding admin mutations.
func adminState(tx *sql.Tx, groupID, userID string) (isAdmin bool, adminCount int, err error) {
	err = tx.QueryRow(
		"SELECT COUNT(*) FROM group_members WHERE group_id = ? AND is_admin = 1",
		groupID).Scan(&adminCount)
	if err != nil {
		return false, 0, err
	}

	err = tx.QueryRow(
		"SELECT is_admin FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID).Scan(&isAdmin)
	if err == sql.ErrNoRows {
		return false, adminCount, nil
	}
	if err != nil {
		return false, 0, err
	}
	return isAdmin, adminCount, nil
}
