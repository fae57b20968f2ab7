package timecard

import (
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// Filter returns a copy of the result narrowed to the workers and weeks the
// filter selects. It is a pure projection: rows are kept or dropped whole,
// totals are never recomputed, and the receiver is left untouched.
//
// Month rows pass a week filter when the month overlaps any selected week's
// Monday..Sunday range, so a week straddling two months keeps both month
// rows visible.
func (r *Result) Filter(f domain.ReportFilter) *Result {
	filtered := &Result{
		Events:      make([]domain.NormalizedRecord, 0, len(r.Events)),
		Daily:       make([]domain.DaySummary, 0, len(r.Daily)),
		Weekly:      make([]domain.WeekSummary, 0, len(r.Weekly)),
		Monthly:     make([]domain.MonthSummary, 0, len(r.Monthly)),
		RowErrors:   r.RowErrors,
		Diagnostics: r.Diagnostics,
		Stats:       r.Stats,
	}

	for _, ev := range r.Events {
		if f.MatchesUser(ev.UserID) && f.MatchesWeek(domain.WeekKeyOf(ev.CheckIn)) {
			filtered.Events = append(filtered.Events, ev)
		}
	}

	for _, day := range r.Daily {
		if f.MatchesUser(day.UserID) && f.MatchesWeek(domain.WeekKeyOf(day.Date)) {
			filtered.Daily = append(filtered.Daily, day)
		}
	}

	for _, week := range r.Weekly {
		if f.MatchesUser(week.UserID) && f.MatchesWeek(week.Week) {
			filtered.Weekly = append(filtered.Weekly, week)
		}
	}

	for _, month := range r.Monthly {
		if f.MatchesUser(month.UserID) && monthMatchesWeeks(month.Month, f.Weeks) {
			filtered.Monthly = append(filtered.Monthly, month)
		}
	}

	return filtered
}

// monthMatchesWeeks reports whether the month overlaps any of the selected
// ISO weeks. An empty selection matches everything.
func monthMatchesWeeks(month domain.MonthKey, weeks []domain.WeekKey) bool {
	if len(weeks) == 0 {
		return true
	}

	monthStart, monthEnd := month.DateRange()
	for _, week := range weeks {
		weekStart, weekEnd := week.DateRange()
		if !weekEnd.Before(monthStart) && !weekStart.After(monthEnd) {
			return true
		}
	}
	return false
}
