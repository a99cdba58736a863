package handlers

import (
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"habitshare/engine"
	"habitshare/middleware"
	"habitshare/models"
	"habitshare/repository"
)

// ReportHandler exposes the flat member x habit x day export table
type ReportHandler struct {
	habitRepo *repository.HabitRepository
	groupRepo *repository.GroupRepository
	userRepo  *repository.UserRepository
	logger    *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	habitRepo *repository.HabitRepository,
	groupRepo *repository.GroupRepository,
	userRepo *repository.UserRepository,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		habitRepo: habitRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// Get handles GET /api/reports?window=week|month&group={id}&format=csv.
// Without a group parameter it reports the caller's own habits; with one
// it reports every member of the group. The Total Score column comes from
// the same scoring engine as the leaderboard, so the two always match.
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	window, err := resolveWindow(r.URL.Query().Get("window"), time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var memberIDs []string
	habitsByMember := make(map[string][]*models.Habit)

	if groupID := r.URL.Query().Get("group"); groupID != "" {
		group, err := h.groupRepo.GetByID(groupID)
		if err != nil {
			h.logger.Error("failed to get group", "error", err, "id", groupID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if group == nil || !group.IsMember(userID) {
			http.Error(w, "Group not found", http.StatusNotFound)
			return
		}
		habits, err := h.habitRepo.ListByGroup(groupID)
		if err != nil {
			h.logger.Error("failed to list group habits", "error", err, "id", groupID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		memberIDs = group.Members
		for _, memberID := range group.Members {
			habitsByMember[memberID] = nil
		}
		for _, habit := range habits {
			habitsByMember[habit.UserID] = append(habitsByMember[habit.UserID], habit)
		}
	} else {
		habits, err := h.habitRepo.ListOwnedBy(userID)
		if err != nil {
			h.logger.Error("failed to list habits", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		memberIDs = []string{userID}
		habitsByMember[userID] = habits
	}

	names, err := h.userRepo.DisplayNames(memberIDs)
	if err != nil {
		h.logger.Error("failed to resolve member names", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	report := engine.BuildReport(names, habitsByMember, window)

	if r.URL.Query().Get("format") == "csv" {
		h.writeCSV(w, report)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (h *ReportHandler) writeCSV(w http.ResponseWriter, report engine.Report) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="habit-report.csv"`)

	cw := csv.NewWriter(w)
	header := append([]string{"Member", "Habit"}, report.DayKeys...)
	header = append(header, "Total Score")
	if err := cw.Write(header); err != nil {
		h.logger.Error("failed to write csv", "error", err)
		return
	}
	for _, row := range report.Rows {
		record := append([]string{row.MemberName, row.HabitTitle}, row.Days...)
		record = append(record, strconv.Itoa(row.TotalScore))
		if err := cw.Write(record); err != nil {
			h.logger.Error("failed to write csv", "error", err)
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Error("failed to flush csv", "error", err)
	}
}
