// Package engine holds the habit scheduling core: actionability rules,
// the log toggle state machine, streak and score calculation, and the
// achievement/notification scan. Everything here is a pure function over
// already-fetched state; "now" is always an explicit parameter.
package engine

import (
	"fmt"
	"time"

	"habitshare/dateutil"
	"habitshare/models"
)

// Actionability reports whether a log toggle may be applied to a habit on
// a given date, and why not when it may not.
type Actionability struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
}

// Refusal reasons, surfaced verbatim to the caller.
const (
	ReasonFuture    = "Future"
	ReasonWeeklyMet = "Weekly target met"
)

// CheckActionable decides whether a toggle is permitted for habit h on
// date, relative to now. The decision depends only on h.Logs and the
// habit's frequency parameters.
//
// Rules, in order: dates after today are never actionable; weekly habits
// stop accepting new completions once the target for the date's week is
// met, except that an already-done day stays toggleable so it can be
// undone; interval habits require a minimum day gap from every other
// completion; daily habits are always actionable.
func CheckActionable(h *models.Habit, date, now time.Time) Actionability {
	if dateutil.AfterDay(date, now) {
		return Actionability{Enabled: false, Reason: ReasonFuture}
	}

	key := dateutil.DayKey(date)

	switch h.Frequency {
	case models.FrequencyWeekly:
		if h.LogStatusAt(key) == models.StatusDone {
			// Undoing a completed day is always allowed.
			return Actionability{Enabled: true}
		}
		if doneInWeek(h, date) >= h.TargetDaysPerWeek {
			return Actionability{Enabled: false, Reason: ReasonWeeklyMet}
		}
	case models.FrequencyInterval:
		for k, l := range h.Logs {
			if k == key || l.Status != models.StatusDone {
				continue
			}
			other, err := dateutil.ParseDay(k)
			if err != nil {
				continue
			}
			if dateutil.DaysBetween(other, date) < h.IntervalDays {
				return Actionability{
					Enabled: false,
					Reason:  fmt.Sprintf("Wait %d days", h.IntervalDays),
				}
			}
		}
	}

	return Actionability{Enabled: true}
}

// doneInWeek counts DONE logs in the Monday-start week containing date.
func doneInWeek(h *models.Habit, date time.Time) int {
	start := dateutil.WeekStart(date)
	done := 0
	for i := 0; i < 7; i++ {
		if h.LogStatusAt(dateutil.DayKey(dateutil.AddDays(start, i))) == models.StatusDone {
			done++
		}
	}
	return done
}
