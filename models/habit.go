package models

import (
	"errors"
	"time"
)

// Frequency determines how often a habit is meant to be completed.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"   // requires TargetDaysPerWeek
	FrequencyInterval Frequency = "interval" // requires IntervalDays
)

// LogStatus is the recorded outcome of a habit for one day.
// Pending is never persisted: a pending day is represented by the
// absence of a log entry, not by a stored status.
type LogStatus string

const (
	StatusDone    LogStatus = "done"
	StatusNotDone LogStatus = "not_done"
	StatusPending LogStatus = "pending"
)

// Log is a single day's recorded outcome for a habit.
type Log struct {
	Date      string    `json:"date"` // YYYY-MM-DD, same as its map key
	Status    LogStatus `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Habit represents a recurring activity a user tracks completion of.
// Logs maps day keys (YYYY-MM-DD) to outcomes; a missing key means the
// day has not been actioned yet, which is distinct from NOT_DONE.
type Habit struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	GroupID           string         `json:"group_id,omitempty"` // empty means personal habit
	Title             string         `json:"title"`
	Frequency         Frequency      `json:"frequency"`
	TargetDaysPerWeek int            `json:"target_days_per_week,omitempty"`
	IntervalDays      int            `json:"interval_days,omitempty"`
	Logs              map[string]Log `json:"logs"`
	Completed         bool           `json:"completed"` // archived: read-only for logging, history kept
	CreatedAt         time.Time      `json:"created_at"`
}

// ValidateFrequency rejects frequency/parameter combinations that cannot
// occur in a well-formed habit.
func ValidateFrequency(f Frequency, targetDaysPerWeek, intervalDays int) error {
	switch f {
	case FrequencyDaily:
		return nil
	case FrequencyWeekly:
		if targetDaysPerWeek < 1 || targetDaysPerWeek > 7 {
			return errors.New("weekly habits need a target between 1 and 7 days per week")
		}
		return nil
	case FrequencyInterval:
		if intervalDays < 2 {
			return errors.New("interval habits need an interval of at least 2 days")
		}
		return nil
	default:
		return errors.New("unknown frequency")
	}
}

// LogStatusAt returns the recorded status for a day key, or StatusPending
// when the day has not been actioned.
func (h *Habit) LogStatusAt(key string) LogStatus {
	if l, ok := h.Logs[key]; ok {
		return l.Status
	}
	return StatusPending
}

// CreateHabitRequest is the payload for creating a new habit
type CreateHabitRequest struct {
	Title             string    `json:"title"`
	GroupID           string    `json:"group_id,omitempty"`
	Frequency         Frequency `json:"frequency"`
	TargetDaysPerWeek int       `json:"target_days_per_week,omitempty"`
	IntervalDays      int       `json:"interval_days,omitempty"`
}

// UpdateHabitRequest is the payload for editing a habit's title or schedule
type UpdateHabitRequest struct {
	Title             string    `json:"title"`
	Frequency         Frequency `json:"frequency"`
	TargetDaysPerWeek int       `json:"target_days_per_week,omitempty"`
	IntervalDays      int       `json:"interval_days,omitempty"`
}

// ToggleLogRequest is the payload for cycling a day's log status
type ToggleLogRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}
