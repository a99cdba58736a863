package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"habitshare/engine"
	"habitshare/middleware"
	"habitshare/models"
	"habitshare/repository"

	"github.com/go-chi/chi/v5"
)

// GroupHandler handles group membership and leaderboard requests
type GroupHandler struct {
	repo      *repository.GroupRepository
	habitRepo *repository.HabitRepository
	userRepo  *repository.UserRepository
	logger    *slog.Logger
}

// NewGroupHandler creates a new group handler
func NewGroupHandler(
	repo *repository.GroupRepository,
	habitRepo *repository.HabitRepository,
	userRepo *repository.UserRepository,
	logger *slog.Logger,
) *GroupHandler {
	return &GroupHandler{
		repo:      repo,
		habitRepo: habitRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// CreateGroup handles POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	h.logger.Info("creating group", "name", req.Name, "user_id", userID)

	group, err := h.repo.Create(req.Name, userID)
	if err != nil {
		h.logger.Error("failed to create group", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(group)
}

// ListGroups handles GET /api/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	groups, err := h.repo.ListForUser(userID)
	if err != nil {
		h.logger.Error("failed to list groups", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(groups)
}

// GetGroup handles GET /api/groups/{id}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group := h.memberGroup(w, r)
	if group == nil {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(group)
}

// Join handles POST /api/groups/{id}/join
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	groupID := chi.URLParam(r, "id")

	group, err := h.repo.GetByID(groupID)
	if err != nil {
		h.logger.Error("failed to get group", "error", err, "id", groupID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if group == nil {
		http.Error(w, "Group not found", http.StatusNotFound)
		return
	}

	h.logger.Info("joining group", "group_id", groupID, "user_id", userID)

	if err := h.repo.Join(groupID, userID); err != nil {
		h.logger.Error("failed to join group", "error", err, "id", groupID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondWithGroup(w, groupID)
}

// Leave handles POST /api/groups/{id}/leave
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	group := h.memberGroup(w, r)
	if group == nil {
		return
	}

	h.logger.Info("leaving group", "group_id", group.ID, "user_id", userID)

	if err := h.repo.Leave(group.ID, userID); err != nil {
		h.membershipError(w, err, group.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Promote handles POST /api/groups/{id}/promote
func (h *GroupHandler) Promote(w http.ResponseWriter, r *http.Request) {
	group, target := h.adminAction(w, r)
	if group == nil {
		return
	}

	h.logger.Info("promoting member", "group_id", group.ID, "target", target)

	if err := h.repo.Promote(group.ID, target); err != nil {
		h.membershipError(w, err, group.ID)
		return
	}

	h.respondWithGroup(w, group.ID)
}

// Demote handles POST /api/groups/{id}/demote
func (h *GroupHandler) Demote(w http.ResponseWriter, r *http.Request) {
	group, target := h.adminAction(w, r)
	if group == nil {
		return
	}

	h.logger.Info("demoting member", "group_id", group.ID, "target", target)

	if err := h.repo.Demote(group.ID, target); err != nil {
		h.membershipError(w, err, group.ID)
		return
	}

	h.respondWithGroup(w, group.ID)
}

// RemoveMember handles DELETE /api/groups/{id}/members/{userID}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	group := h.memberGroup(w, r)
	if group == nil {
		return
	}
	if !group.IsAdmin(userID) {
		http.Error(w, "Only a group admin can do this", http.StatusForbidden)
		return
	}
	target := chi.URLParam(r, "userID")

	h.logger.Info("removing member", "group_id", group.ID, "target", target)

	if err := h.repo.RemoveMember(group.ID, target); err != nil {
		h.membershipError(w, err, group.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Leaderboard handles GET /api/groups/{id}/leaderboard?window=week|month.
// Every member is scored over the same window with the scoring engine the
// export report uses, then ranked descending.
func (h *GroupHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	group := h.memberGroup(w, r)
	if group == nil {
		return
	}

	window, err := resolveWindow(r.URL.Query().Get("window"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	habits, err := h.habitRepo.ListByGroup(group.ID)
	if err != nil {
		h.logger.Error("failed to list group habits", "error", err, "group_id", group.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	byOwner := make(map[string][]*models.Habit)
	for _, habit := range habits {
		byOwner[habit.UserID] = append(byOwner[habit.UserID], habit)
	}

	names, err := h.userRepo.DisplayNames(group.Members)
	if err != nil {
		h.logger.Error("failed to resolve member names", "error", err, "group_id", group.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(group.Members))
	for _, memberID := range group.Members {
		entries = append(entries, models.LeaderboardEntry{
			UserID:      memberID,
			DisplayName: names[memberID],
			Score:       engine.Score(byOwner[memberID], window),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

// resolveWindow maps a query parameter to a scoring window around now.
func resolveWindow(param string, now time.Time) (engine.Window, error) {
	switch param {
	case "", "week":
		return engine.WeekWindowFor(now), nil
	case "month":
		return engine.MonthWindowFor(now), nil
	default:
		return engine.Window{}, errors.New("window must be week or month")
	}
}

// adminAction loads the group, checks the caller is an admin, and decodes
// the target member from the body.
func (h *GroupHandler) adminAction(w http.ResponseWriter, r *http.Request) (*models.Group, string) {
	userID := middleware.UserID(r.Context())
	group := h.memberGroup(w, r)
	if group == nil {
		return nil, ""
	}
	if !group.IsAdmin(userID) {
		http.Error(w, "Only a group admin can do this", http.StatusForbidden)
		return nil, ""
	}

	var req models.GroupMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return nil, ""
	}
	return group, req.UserID
}

// memberGroup loads the group from the URL and enforces that the caller
// belongs to it.
func (h *GroupHandler) memberGroup(w http.ResponseWriter, r *http.Request) *models.Group {
	userID := middleware.UserID(r.Context())
	groupID := chi.URLParam(r, "id")

	group, err := h.repo.GetByID(groupID)
	if err != nil {
		h.logger.Error("failed to get group", "error", err, "id", groupID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil
	}
	if group == nil || !group.IsMember(userID) {
		http.Error(w, "Group not found", http.StatusNotFound)
		return nil
	}
	return group
}

func (h *GroupHandler) membershipError(w http.ResponseWriter, err error, groupID string) {
	switch {
	case errors.Is(err, repository.ErrLastAdmin):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, repository.ErrNotMember):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("group mutation failed", "error", err, "group_id", groupID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *GroupHandler) respondWithGroup(w http.ResponseWriter, groupID string) {
	group, err := h.repo.GetByID(groupID)
	if err != nil || group == nil {
		h.logger.Error("failed to reload group", "error", err, "id", groupID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(group)
}
