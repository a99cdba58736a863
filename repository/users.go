package repository

import (
	"database/sql"
	"fmt"

	"habitshare/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) (*UserRepository, error) {
	// Create users table
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		daily_reminder_time TEXT NOT NULL DEFAULT ''
	);`

	_, err := db.Exec(createTableSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to create users table: %w", err)
	}

	return &UserRepository{db: db}, nil
}

// CreateUser creates a new user with hashed password
func (r *UserRepository) CreateUser(username, password string) (*models.User, error) {
	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = r.db.Exec(
		"INSERT INTO users (id, username, password, display_name) VALUES (?, ?, ?, ?)",
		id, username, string(hashedPassword), username,
	)
	if err != nil {
		return nil, err
	}

	return &models.User{
		ID:          id,
		Username:    username,
		DisplayName: username,
	}, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		"SELECT id, username, password, display_name, daily_reminder_time FROM users WHERE username = ?",
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &user.DisplayName, &user.DailyReminderTime)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves a user by id
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(
		"SELECT id, username, password, display_name, daily_reminder_time FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.Username, &user.Password, &user.DisplayName, &user.DailyReminderTime)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UpdateSettings changes a user's display name and daily reminder time
func (r *UserRepository) UpdateSettings(id string, req models.UpdateSettingsRequest) (*models.User, error) {
	_, err := r.db.Exec(
		"UPDATE users SET display_name = ?, daily_reminder_time = ? WHERE id = ?",
		req.DisplayName, req.DailyReminderTime, id,
	)
	if err != nil {
		return nil, err
	}

	return r.GetUserByID(id)
}

// DisplayNames resolves user ids to display names
func (r *UserRepository) DisplayNames(ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		user, err := r.GetUserByID(id)
		if err != nil {
			return nil, err
		}
		if user != nil {
			names[id] = user.DisplayName
		}
	}
	return names, nil
}

// ValidatePassword checks if password matches
func (r *UserRepository) ValidatePassword(user *models.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}
