package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"habitshare/middleware"
	"habitshare/models"
	"habitshare/repository"

	"github.com/go-chi/chi/v5"
)

// NotificationHandler handles notification and achievement listing
type NotificationHandler struct {
	notifRepo *repository.NotificationRepository
	achRepo   *repository.AchievementRepository
	logger    *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(
	notifRepo *repository.NotificationRepository,
	achRepo *repository.AchievementRepository,
	logger *slog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		notifRepo: notifRepo,
		achRepo:   achRepo,
		logger:    logger,
	}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	notifications, err := h.notifRepo.ListForUser(userID)
	if err != nil {
		h.logger.Error("failed to list notifications", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	id := chi.URLParam(r, "id")

	err := h.notifRepo.MarkRead(id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		http.Error(w, "Notification not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("failed to mark notification read", "error", err, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListAchievements handles GET /api/achievements
func (h *NotificationHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	achievements, err := h.achRepo.ListForUser(userID)
	if err != nil {
		h.logger.Error("failed to list achievements", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if achievements == nil {
		achievements = []models.Achievement{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(achievements)
}
