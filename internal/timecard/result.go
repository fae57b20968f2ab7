package timecard

import (
	"sort"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// RowError records one rejected source row. Rejections never abort a run;
// they accumulate in input order alongside the rows that did parse.
type RowError struct {
	Row   int              `json:"row"`
	Field string           `json:"field"`
	Err   *errors.AppError `json:"error"`
}

// Diagnostic records a non-fatal finding about a row that was kept, such as
// a check-out that precedes its check-in.
type Diagnostic struct {
	Row    int              `json:"row"`
	UserID string           `json:"user_id"`
	Err    *errors.AppError `json:"error"`
}

// Result is the immutable outcome of one pipeline run: the normalized
// records, the three summary tables, and everything that went wrong on the
// way. All slices are sorted; callers must not mutate them.
type Result struct {
	Events      []domain.NormalizedRecord `json:"events"`
	Daily       []domain.DaySummary       `json:"daily"`
	Weekly      []domain.WeekSummary      `json:"weekly"`
	Monthly     []domain.MonthSummary     `json:"monthly"`
	RowErrors   []RowError                `json:"row_errors,omitempty"`
	Diagnostics []Diagnostic              `json:"diagnostics,omitempty"`
	Stats       domain.ReportMetadata     `json:"stats"`
}

// Users returns the distinct worker IDs present in the result, sorted.
func (r *Result) Users() []string {
	seen := make(map[string]struct{}, len(r.Daily))
	for _, day := range r.Daily {
		seen[day.UserID] = struct{}{}
	}

	users := make([]string, 0, len(seen))
	for user := range seen {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// EventsForUser returns the normalized records belonging to one worker, in
// the result's order.
func (r *Result) EventsForUser(userID string) []domain.NormalizedRecord {
	var events []domain.NormalizedRecord
	for _, ev := range r.Events {
		if ev.UserID == userID {
			events = append(events, ev)
		}
	}
	return events
}
