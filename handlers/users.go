package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"habitshare/middleware"
	"habitshare/models"
	"habitshare/repository"
)

// UserHandler handles profile settings requests
type UserHandler struct {
	userRepo *repository.UserRepository
	logger   *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userRepo *repository.UserRepository, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// UpdateSettings handles PUT /api/users/me/settings
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.DisplayName == "" {
		http.Error(w, "Display name is required", http.StatusBadRequest)
		return
	}
	if req.DailyReminderTime != "" {
		if _, err := time.Parse("15:04", req.DailyReminderTime); err != nil {
			http.Error(w, "Reminder time must be HH:MM", http.StatusBadRequest)
			return
		}
	}

	h.logger.Info("updating settings", "user_id", userID)

	user, err := h.userRepo.UpdateSettings(userID, req)
	if err != nil {
		h.logger.Error("failed to update settings", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
