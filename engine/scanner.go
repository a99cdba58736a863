package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"habitshare/models"
)

// ScanStore is the slice of persistence the scanner needs. Snapshot reads
// feed the idempotency checks; CommitScan persists one pass's batch and
// must treat an already-existing id as a no-op success.
type ScanStore interface {
	HabitsOwnedBy(userID string) ([]*models.Habit, error)
	NotificationIDs(userID string) (map[string]bool, error)
	AchievementIDs(userID string) (map[string]bool, error)
	CommitScan(achievements []models.Achievement, notifications []models.Notification) error
}

// Scanner drives RunScan against the store. Schedule debounces a pass
// until the triggering activity settles; RunOnce executes immediately but
// is never re-entered for a user while their previous pass is in flight.
// Concurrent passes from other devices are tolerated: ids are
// deterministic, so the store resolves duplicates to no-ops.
type Scanner struct {
	store          ScanStore
	logger         *slog.Logger
	riskCutoffHour int
	debounce       time.Duration
	now            func() time.Time

	mu      sync.Mutex
	timers  map[string]*time.Timer
	running map[string]bool
}

// NewScanner creates a scanner. A riskCutoffHour of 0 means the default
// cutoff; debounce is the settle delay Schedule waits before running.
func NewScanner(store ScanStore, logger *slog.Logger, riskCutoffHour int, debounce time.Duration) *Scanner {
	return &Scanner{
		store:          store,
		logger:         logger,
		riskCutoffHour: riskCutoffHour,
		debounce:       debounce,
		now:            time.Now,
		timers:         make(map[string]*time.Timer),
		running:        make(map[string]bool),
	}
}

// Schedule queues a scan for the user, resetting the debounce timer if
// one is already pending.
func (s *Scanner) Schedule(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[user.ID]; ok {
		t.Stop()
	}
	u := *user
	s.timers[user.ID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, u.ID)
		s.mu.Unlock()

		if _, err := s.RunOnce(&u); err != nil {
			s.logger.Error("scheduled scan failed", "error", err, "user_id", u.ID)
		}
	})
}

// RunOnce executes a single scan pass for the user. If a pass for the
// same user is already in flight it returns an empty result instead of
// overlapping it.
func (s *Scanner) RunOnce(user *models.User) (ScanResult, error) {
	s.mu.Lock()
	if s.running[user.ID] {
		s.mu.Unlock()
		return ScanResult{}, nil
	}
	s.running[user.ID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.running, user.ID)
		s.mu.Unlock()
	}()

	habits, err := s.store.HabitsOwnedBy(user.ID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load habits: %w", err)
	}
	notifIDs, err := s.store.NotificationIDs(user.ID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load notification ids: %w", err)
	}
	achIDs, err := s.store.AchievementIDs(user.ID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load achievement ids: %w", err)
	}

	result := RunScan(ScanInput{
		User:                    user,
		Habits:                  habits,
		ExistingNotificationIDs: notifIDs,
		ExistingAchievementIDs:  achIDs,
		Now:                     s.now(),
		RiskCutoffHour:          s.riskCutoffHour,
	})

	if len(result.Achievements) == 0 && len(result.Notifications) == 0 {
		return result, nil
	}
	if err := s.store.CommitScan(result.Achievements, result.Notifications); err != nil {
		return ScanResult{}, fmt.Errorf("failed to commit scan batch: %w", err)
	}

	s.logger.Info("scan committed",
		"user_id", user.ID,
		"achievements", len(result.Achievements),
		"notifications", len(result.Notifications))
	return result, nil
}
