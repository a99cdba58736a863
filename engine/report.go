package engine

import (
	"sort"

	"habitshare/dateutil"
	"habitshare/models"
)

// Day cell symbols used by exported reports. A blank cell means the day
// was never actioned.
const (
	CellDone    = "DONE"
	CellNotDone = "NOT_DONE"
	CellBlank   = ""
)

// ReportRow is one member x habit line of an exported report: a symbol
// per window day plus the member's total score repeated on each of their
// rows.
type ReportRow struct {
	MemberID   string   `json:"member_id"`
	MemberName string   `json:"member_name"`
	HabitID    string   `json:"habit_id"`
	HabitTitle string   `json:"habit_title"`
	Days       []string `json:"days"`
	TotalScore int      `json:"total_score"`
}

// Report is the flat tabular structure the export collaborator consumes.
type Report struct {
	DayKeys []string    `json:"day_keys"`
	Rows    []ReportRow `json:"rows"`
}

// BuildReport flattens members' habits over a window into a table.
// memberNames maps member ids to display names; habitsByMember holds each
// member's habits in scope. Rows are ordered by member id then habit
// creation order (title as tiebreaker) so output is deterministic. The
// TotalScore column is computed with Score over the same inputs the
// leaderboard uses.
func BuildReport(memberNames map[string]string, habitsByMember map[string][]*models.Habit, w Window) Report {
	dayKeys := dateutil.DayKeys(w.Start, w.End)

	memberIDs := make([]string, 0, len(habitsByMember))
	for id := range habitsByMember {
		memberIDs = append(memberIDs, id)
	}
	sort.Strings(memberIDs)

	report := Report{DayKeys: dayKeys}
	for _, memberID := range memberIDs {
		habits := habitsByMember[memberID]
		sort.Slice(habits, func(i, j int) bool {
			if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
				return habits[i].CreatedAt.Before(habits[j].CreatedAt)
			}
			return habits[i].Title < habits[j].Title
		})
		score := Score(habits, w)

		for _, h := range habits {
			days := make([]string, len(dayKeys))
			for i, key := range dayKeys {
				switch h.LogStatusAt(key) {
				case models.StatusDone:
					days[i] = CellDone
				case models.StatusNotDone:
					days[i] = CellNotDone
				default:
					days[i] = CellBlank
				}
			}
			report.Rows = append(report.Rows, ReportRow{
				MemberID:   memberID,
				MemberName: memberNames[memberID],
				HabitID:    h.ID,
				HabitTitle: h.Title,
				Days:       days,
				TotalScore: score,
			})
		}
	}
	return report
}
