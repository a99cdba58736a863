package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"habitshare/models"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Open opens the sqlite database shared by all repositories.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// HabitRepository handles database operations for habits. Each habit row
// carries its full log map as a JSON column, so a log write is a single
// row update and stays atomic at document granularity.
type HabitRepository struct {
	db *sql.DB
}

// NewHabitRepository creates the repository and its schema
func NewHabitRepository(db *sql.DB) (*HabitRepository, error) {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS habits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		group_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		frequency TEXT NOT NULL,
		target_days_per_week INTEGER NOT NULL DEFAULT 0,
		interval_days INTEGER NOT NULL DEFAULT 0,
		logs TEXT NOT NULL DEFAULT '{}',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("failed to create habits table: %w", err)
	}

	return &HabitRepository{db: db}, nil
}

const habitColumns = "id, user_id, group_id, title, frequency, target_days_per_week, interval_days, logs, completed, created_at"

func scanHabit(row interface{ Scan(...any) error }) (*models.Habit, error) {
	var h models.Habit
	var logsJSON string
	err := row.Scan(&h.ID, &h.UserID, &h.GroupID, &h.Title, &h.Frequency,
		&h.TargetDaysPerWeek, &h.IntervalDays, &logsJSON, &h.Completed, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(logsJSON), &h.Logs); err != nil {
		return nil, fmt.Errorf("failed to decode logs for habit %s: %w", h.ID, err)
	}
	if h.Logs == nil {
		h.Logs = make(map[string]models.Log)
	}
	return &h, nil
}

func (r *HabitRepository) queryHabits(query string, args ...any) ([]*models.Habit, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// GetByID retrieves a single habit by ID
func (r *HabitRepository) GetByID(id string) (*models.Habit, error) {
	h, err := scanHabit(r.db.QueryRow(
		"SELECT "+habitColumns+" FROM habits WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Create adds a new habit for the user
func (r *HabitRepository) Create(userID string, req models.CreateHabitRequest) (*models.Habit, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		"INSERT INTO habits (id, user_id, group_id, title, frequency, target_days_per_week, interval_days, logs, completed, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, '{}', 0, ?)",
		id, userID, req.GroupID, req.Title, req.Frequency, req.TargetDaysPerWeek, req.IntervalDays, time.Now(),
	)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// Update modifies a habit's title and schedule
func (r *HabitRepository) Update(id string, req models.UpdateHabitRequest) (*models.Habit, error) {
	_, err := r.db.Exec(
		"UPDATE habits SET title = ?, frequency = ?, target_days_per_week = ?, interval_days = ? WHERE id = ?",
		req.Title, req.Frequency, req.TargetDaysPerWeek, req.IntervalDays, id,
	)
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// SaveLogs persists a habit's log map after a toggle
func (r *HabitRepository) SaveLogs(h *models.Habit) error {
	logsJSON, err := json.Marshal(h.Logs)
	if err != nil {
		return fmt.Errorf("failed to encode logs: %w", err)
	}
	_, err = r.db.Exec("UPDATE habits SET logs = ? WHERE id = ?", string(logsJSON), h.ID)
	return err
}

// SetCompleted archives or unarchives a habit
func (r *HabitRepository) SetCompleted(id string, completed bool) error {
	_, err := r.db.Exec("UPDATE habits SET completed = ? WHERE id = ?", completed, id)
	return err
}

// Delete removes a habit
func (r *HabitRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM habits WHERE id = ?", id)
	return err
}

// ListOwnedBy retrieves all habits owned by the user
func (r *HabitRepository) ListOwnedBy(userID string) ([]*models.Habit, error) {
	return r.queryHabits(
		"SELECT "+habitColumns+" FROM habits WHERE user_id = ? ORDER BY created_at",
		userID)
}

// ListByGroup retrieves all habits attached to a group, any owner
func (r *HabitRepository) ListByGroup(groupID string) ([]*models.Habit, error) {
	return r.queryHabits(
		"SELECT "+habitColumns+" FROM habits WHERE group_id = ? ORDER BY created_at",
		groupID)
}

// MapOwnedBy is the personal-habit channel: the user's own habits keyed
// by id.
func (r *HabitRepository) MapOwnedBy(userID string) (map[string]*models.Habit, error) {
	habits, err := r.ListOwnedBy(userID)
	if err != nil {
		return nil, err
	}
	return habitMap(habits), nil
}

// MapGroupObserved is the group-habit channel: every habit attached to a
// group the user belongs to, keyed by id. It includes the user's own
// group habits; the merge reducer is responsible for dropping those in
// favor of the personal channel.
func (r *HabitRepository) MapGroupObserved(userID string) (map[string]*models.Habit, error) {
	habits, err := r.queryHabits(
		"SELECT "+habitColumns+` FROM habits
		 WHERE group_id != '' AND group_id IN
		   (SELECT group_id FROM group_members WHERE user_id = ?)
		 ORDER BY created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	return habitMap(habits), nil
}

func habitMap(habits []*models.Habit) map[string]*models.Habit {
	m := make(map[string]*models.Habit, len(habits))
	for _, h := range habits {
		m[h.ID] = h
	}
	return m
}
