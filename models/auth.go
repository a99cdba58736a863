package models

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the JWT token response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   string `json:"user_id"`
}

// User represents a user in the system
type User struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Password          string `json:"-"` // "-" means don't send password in JSON
	DisplayName       string `json:"display_name"`
	DailyReminderTime string `json:"daily_reminder_time,omitempty"` // HH:MM, empty disables reminders
}

// UpdateSettingsRequest is the payload for changing profile settings
type UpdateSettingsRequest struct {
	DisplayName       string `json:"display_name"`
	DailyReminderTime string `json:"daily_reminder_time"`
}
