package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"habitshare/dateutil"
	"habitshare/engine"
	"habitshare/middleware"
	"habitshare/models"
	"habitshare/repository"

	"github.com/go-chi/chi/v5"
)

// HabitHandler handles all habit-related HTTP requests
type HabitHandler struct {
	repo      *repository.HabitRepository
	groupRepo *repository.GroupRepository
	notifRepo *repository.NotificationRepository
	userRepo  *repository.UserRepository
	scanner   *engine.Scanner
	logger    *slog.Logger
}

// NewHabitHandler creates a new handler
func NewHabitHandler(
	repo *repository.HabitRepository,
	groupRepo *repository.GroupRepository,
	notifRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	scanner *engine.Scanner,
	logger *slog.Logger,
) *HabitHandler {
	return &HabitHandler{
		repo:      repo,
		groupRepo: groupRepo,
		notifRepo: notifRepo,
		userRepo:  userRepo,
		scanner:   scanner,
		logger:    logger,
	}
}

// GetAllHabits handles GET /api/habits. The response is the materialized
// view over both update channels: the user's own habits and the habits
// observed through their groups, merged with ownership priority.
func (h *HabitHandler) GetAllHabits(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	h.logger.Info("getting all habits", "user_id", userID)

	own, err := h.repo.MapOwnedBy(userID)
	if err != nil {
		h.logger.Error("failed to get habits", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	observed, err := h.repo.MapGroupObserved(userID)
	if err != nil {
		h.logger.Error("failed to get group habits", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	merged := engine.MergeHabits(own, observed, userID)
	habits := make([]*models.Habit, 0, len(merged))
	for _, habit := range merged {
		habits = append(habits, habit)
	}
	sort.Slice(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].ID < habits[j].ID
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habits)
}

// GetHabit handles GET /api/habits/{id}
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	habit := h.visibleHabit(w, r)
	if habit == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habit)
}

// CreateHabit handles POST /api/habits
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Validation
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if err := models.ValidateFrequency(req.Frequency, req.TargetDaysPerWeek, req.IntervalDays); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.GroupID != "" {
		group, err := h.groupRepo.GetByID(req.GroupID)
		if err != nil {
			h.logger.Error("failed to get group", "error", err, "group_id", req.GroupID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if group == nil || !group.IsMember(userID) {
			http.Error(w, "Not a member of the group", http.StatusForbidden)
			return
		}
	}

	h.logger.Info("creating habit", "title", req.Title, "user_id", userID)

	habit, err := h.repo.Create(userID, req)
	if err != nil {
		h.logger.Error("failed to create habit", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(habit)
}

// UpdateHabit handles PUT /api/habits/{id}
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	habit := h.ownedHabit(w, r)
	if habit == nil {
		return
	}

	var req models.UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Validation
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if err := models.ValidateFrequency(req.Frequency, req.TargetDaysPerWeek, req.IntervalDays); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("updating habit", "id", habit.ID)

	updated, err := h.repo.Update(habit.ID, req)
	if err != nil {
		h.logger.Error("failed to update habit", "error", err, "id", habit.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteHabit handles DELETE /api/habits/{id}
func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	habit := h.ownedHabit(w, r)
	if habit == nil {
		return
	}

	h.logger.Info("deleting habit", "id", habit.ID)

	if err := h.repo.Delete(habit.ID); err != nil {
		h.logger.Error("failed to delete habit", "error", err, "id", habit.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLog handles POST /api/habits/{id}/toggle. The actionability check
// runs against the freshly loaded habit immediately before the write; a
// disabled date is refused with the evaluator's reason and nothing is
// persisted.
func (h *HabitHandler) ToggleLog(w http.ResponseWriter, r *http.Request) {
	habit := h.ownedHabit(w, r)
	if habit == nil {
		return
	}

	var req models.ToggleLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	date, err := dateutil.ParseDay(req.Date)
	if err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	now := time.Now()
	status, err := engine.ToggleLog(habit, date, now)
	if err != nil {
		var na *engine.NotActionableError
		if errors.As(err, &na) || errors.Is(err, engine.ErrHabitArchived) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.Error("failed to toggle log", "error", err, "id", habit.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.repo.SaveLogs(habit); err != nil {
		h.logger.Error("failed to save logs", "error", err, "id", habit.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("toggled log", "id", habit.ID, "date", req.Date, "status", status)

	if status == models.StatusDone && habit.GroupID != "" {
		h.notifyGroup(habit, req.Date, now)
	}

	// Let the rule engine catch up once this burst of activity settles.
	if user, err := h.userRepo.GetUserByID(habit.UserID); err == nil && user != nil {
		h.scanner.Schedule(user)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": status,
		"streak": engine.Streak(habit, now),
	})
}

// Archive handles POST /api/habits/{id}/archive, flipping the completed
// flag. Archived habits keep their history but refuse log toggles.
func (h *HabitHandler) Archive(w http.ResponseWriter, r *http.Request) {
	habit := h.ownedHabit(w, r)
	if habit == nil {
		return
	}

	h.logger.Info("toggling archive", "id", habit.ID, "completed", !habit.Completed)

	if err := h.repo.SetCompleted(habit.ID, !habit.Completed); err != nil {
		h.logger.Error("failed to archive habit", "error", err, "id", habit.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	habit.Completed = !habit.Completed
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(habit)
}

// GetStreak handles GET /api/habits/{id}/streak
func (h *HabitHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	habit := h.visibleHabit(w, r)
	if habit == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"streak": engine.Streak(habit, time.Now())})
}

// GetActionability handles GET /api/habits/{id}/actionable?date=YYYY-MM-DD
func (h *HabitHandler) GetActionability(w http.ResponseWriter, r *http.Request) {
	habit := h.visibleHabit(w, r)
	if habit == nil {
		return
	}

	date, err := dateutil.ParseDay(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "Date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(engine.CheckActionable(habit, date, time.Now()))
}

// notifyGroup tells the other group members about a completion. Ids are
// deterministic per (habit, day, member), so repeating the toggle on the
// same day cannot spam the group.
func (h *HabitHandler) notifyGroup(habit *models.Habit, day string, now time.Time) {
	group, err := h.groupRepo.GetByID(habit.GroupID)
	if err != nil || group == nil {
		h.logger.Error("failed to load group for notification", "error", err, "group_id", habit.GroupID)
		return
	}
	owner, err := h.userRepo.GetUserByID(habit.UserID)
	if err != nil || owner == nil {
		h.logger.Error("failed to load habit owner", "error", err, "user_id", habit.UserID)
		return
	}

	var batch []models.Notification
	for _, memberID := range group.Members {
		if memberID == habit.UserID {
			continue
		}
		batch = append(batch, models.Notification{
			ID:        models.GroupActivityID(habit.ID, day, memberID),
			UserID:    memberID,
			Type:      models.NotificationGroupActivity,
			Message:   fmt.Sprintf("%s completed %q", owner.DisplayName, habit.Title),
			CreatedAt: now,
		})
	}
	if err := h.notifRepo.CreateBatch(batch); err != nil {
		h.logger.Error("failed to notify group", "error", err, "group_id", group.ID)
	}
}

// ownedHabit loads the habit from the URL and enforces ownership. It
// writes the error response and returns nil when the request cannot
// proceed.
func (h *HabitHandler) ownedHabit(w http.ResponseWriter, r *http.Request) *models.Habit {
	habit := h.loadHabit(w, r)
	if habit == nil {
		return nil
	}
	if habit.UserID != middleware.UserID(r.Context()) {
		http.Error(w, "Only the habit owner can do this", http.StatusForbidden)
		return nil
	}
	return habit
}

// visibleHabit loads the habit and enforces visibility: the owner always
// sees it, fellow group members see group habits.
func (h *HabitHandler) visibleHabit(w http.ResponseWriter, r *http.Request) *models.Habit {
	habit := h.loadHabit(w, r)
	if habit == nil {
		return nil
	}
	userID := middleware.UserID(r.Context())
	if habit.UserID == userID {
		return habit
	}
	if habit.GroupID != "" {
		group, err := h.groupRepo.GetByID(habit.GroupID)
		if err != nil {
			h.logger.Error("failed to get group", "error", err, "group_id", habit.GroupID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return nil
		}
		if group != nil && group.IsMember(userID) {
			return habit
		}
	}
	http.Error(w, "Habit not found", http.StatusNotFound)
	return nil
}

func (h *HabitHandler) loadHabit(w http.ResponseWriter, r *http.Request) *models.Habit {
	id := chi.URLParam(r, "id")

	habit, err := h.repo.GetByID(id)
	if err != nil {
		h.logger.Error("failed to get habit", "error", err, "id", id)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if habit == nil {
		http.Error(w, "Habit not found", http.StatusNotFound)
		return nil
	}
	return habit
}
