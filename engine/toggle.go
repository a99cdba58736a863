package engine

import (
	"errors"
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// ErrHabitArchived is returned when a toggle targets an archived habit.
var ErrHabitArchived = errors.New("habit is archived")

// NotActionableError rejects a toggle on a date the actionability rules
// currently disable. Reason carries the evaluator's string verbatim.
type NotActionableError struct {
	Reason string
}

func (e *NotActionableError) Error() string { return e.Reason }

// ToggleLog advances the log for the given date one step through the
// cycle PENDING -> DONE -> NOT_DONE -> PENDING and returns the resulting
// status. A transition to PENDING deletes the entry so that absence stays
// the canonical "not yet actioned" representation; the other transitions
// upsert a log with a fresh timestamp.
//
// The habit is mutated in place; persisting it is the caller's job, as is
// the ownership check and fanning out group notifications when the result
// is DONE.
func ToggleLog(h *models.Habit, date, now time.Time) (models.LogStatus, error) {
	if h.Completed {
		return "", ErrHabitArchived
	}
	if a := CheckActionable(h, date, now); !a.Enabled {
		return "", &NotActionableError{Reason: a.Reason}
	}

	key := dateutil.DayKey(date)
	if h.Logs == nil {
		h.Logs = make(map[string]models.Log)
	}

	switch h.LogStatusAt(key) {
	case models.StatusPending:
		h.Logs[key] = models.Log{Date: key, Status: models.StatusDone, Timestamp: now}
		return models.StatusDone, nil
	case models.StatusDone:
		h.Logs[key] = models.Log{Date: key, Status: models.StatusNotDone, Timestamp: now}
		return models.StatusNotDone, nil
	default: // NOT_DONE cycles back to untouched
		delete(h.Logs, key)
		return models.StatusPending, nil
	}
}
