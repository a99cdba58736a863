package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"habitshare/engine"
	"habitshare/middleware"
	"habitshare/repository"
)

// ScanHandler exposes the achievement/notification rule engine over HTTP
type ScanHandler struct {
	userRepo *repository.UserRepository
	scanner  *engine.Scanner
	logger   *slog.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(userRepo *repository.UserRepository, scanner *engine.Scanner, logger *slog.Logger) *ScanHandler {
	return &ScanHandler{
		userRepo: userRepo,
		scanner:  scanner,
		logger:   logger,
	}
}

// Run handles POST /api/scan: one synchronous rule-engine pass for the
// caller. Running it repeatedly is safe; an unchanged state yields an
// empty result.
func (h *ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	user, err := h.userRepo.GetUserByID(userID)
	if err != nil {
		h.logger.Error("failed to get user", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	result, err := h.scanner.RunOnce(user)
	if err != nil {
		h.logger.Error("scan failed", "error", err, "user_id", userID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
