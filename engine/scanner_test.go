package engine

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"habitshare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScanStore keeps everything in memory and resolves duplicate ids to
// no-ops, like the sqlite store does.
type fakeScanStore struct {
	mu            sync.Mutex
	habits        []*models.Habit
	notifications map[string]models.Notification
	achievements  map[string]models.Achievement
	commits       int
}

func newFakeScanStore(habits ...*models.Habit) *fakeScanStore {
	return &fakeScanStore{
		habits:        habits,
		notifications: make(map[string]models.Notification),
		achievements:  make(map[string]models.Achievement),
	}
}

func (f *fakeScanStore) HabitsOwnedBy(string) ([]*models.Habit, error) {
	return f.habits, nil
}

func (f *fakeScanStore) NotificationIDs(string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(f.notifications))
	for id := range f.notifications {
		ids[id] = true
	}
	return ids, nil
}

func (f *fakeScanStore) AchievementIDs(string) (map[string]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[string]bool, len(f.achievements))
	for id := range f.achievements {
		ids[id] = true
	}
	return ids, nil
}

func (f *fakeScanStore) CommitScan(achievements []models.Achievement, notifications []models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commits++
	for _, a := range achievements {
		if _, exists := f.achievements[a.ID]; !exists {
			f.achievements[a.ID] = a
		}
	}
	for _, n := range notifications {
		if _, exists := f.notifications[n.ID]; !exists {
			f.notifications[n.ID] = n
		}
	}
	return nil
}

func testScanner(store ScanStore) *Scanner {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	s := NewScanner(store, logger, DefaultRiskCutoffHour, 10*time.Millisecond)
	s.now = func() time.Time { return testNow }
	return s
}

func TestScanner_RunOnceCommitsBatch(t *testing.T) {
	store := newFakeScanStore(streakHabit(21))
	s := testScanner(store)

	result, err := s.RunOnce(testUser())

	require.NoError(t, err)
	assert.Len(t, result.Achievements, 2) // 11 and 21
	assert.Len(t, store.achievements, 2)
	assert.Equal(t, 1, store.commits)
}

func TestScanner_RerunProducesNoNewWrites(t *testing.T) {
	store := newFakeScanStore(streakHabit(21))
	s := testScanner(store)

	_, err := s.RunOnce(testUser())
	require.NoError(t, err)

	result, err := s.RunOnce(testUser())
	require.NoError(t, err)
	assert.Empty(t, result.Achievements)
	assert.Empty(t, result.Notifications)
	assert.Equal(t, 1, store.commits, "an empty pass commits nothing")
}

func TestScanner_ScheduleDebounces(t *testing.T) {
	store := newFakeScanStore(streakHabit(11))
	s := testScanner(store)
	user := testUser()

	// A burst of triggers collapses into one pass.
	s.Schedule(user)
	s.Schedule(user)
	s.Schedule(user)

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.commits == 1
	}, time.Second, 5*time.Millisecond)

	// Give a straggler pass a moment to show up; none should.
	time.Sleep(50 * time.Millisecond)
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.commits)
}

func TestScanner_EmptyStateCommitsNothing(t *testing.T) {
	store := newFakeScanStore()
	s := testScanner(store)

	result, err := s.RunOnce(testUser())

	require.NoError(t, err)
	assert.Empty(t, result.Achievements)
	assert.Equal(t, 0, store.commits)
}
