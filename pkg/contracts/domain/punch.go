package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// PunchRecord represents a single check-in/check-out row from a punch clock
// export. This is the primary data structure for raw attendance entries.
type PunchRecord struct {
	UserID    string     `json:"user_id" db:"user_id" validate:"required"`
	FirstName string     `json:"first_name" db:"first_name"`
	LastName  string     `json:"last_name" db:"last_name"`
	CheckIn   time.Time  `json:"check_in" db:"check_in" validate:"required"`
	CheckOut  *time.Time `json:"check_out,omitempty" db:"check_out"` // nil when the worker never clocked out
	Row       int        `json:"row" db:"row" validate:"min=0"`      // 1-based sheet row, for diagnostics
}

// FullName returns "FirstName LastName" with single-space joining.
func (p *PunchRecord) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PunchStatus classifies a punch record after normalization.
type PunchStatus string

const (
	// PunchStatusValid marks a record with a usable non-negative duration.
	PunchStatusValid PunchStatus = "valid"
	// PunchStatusNoRecord marks a record whose check-out is missing or is the
	// device sentinel (year 1). It contributes no hours anywhere.
	PunchStatusNoRecord PunchStatus = "no_record"
	// PunchStatusInvalid marks a record whose check-out precedes its check-in.
	// It is excluded from every total and surfaces as a diagnostic.
	PunchStatusInvalid PunchStatus = "invalid"
)

// NormalizedRecord is a PunchRecord with its classification and computed
// duration. DurationHours is nil exactly when Status is PunchStatusNoRecord;
// for invalid records it retains the negative figure for diagnostics.
type NormalizedRecord struct {
	PunchRecord
	Status        PunchStatus `json:"status" validate:"required,oneof=valid no_record invalid"`
	DurationHours *float64    `json:"duration_hours,omitempty"`
}

// WorkedHours returns the duration that counts toward totals: the computed
// hours for valid records, 0 otherwise.
func (n *NormalizedRecord) WorkedHours() float64 {
	if n.Status == PunchStatusValid && n.DurationHours != nil {
		return *n.DurationHours
	}
	return 0
}

// DaySummary represents one worker's total for one civil date.
type DaySummary struct {
	UserID         string    `json:"user_id" validate:"required"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Date           time.Time `json:"date" validate:"required"`
	TotalHours     float64   `json:"total_hours"`
	HadAnyNoRecord bool      `json:"had_any_no_record"` // true when any record of the day is not valid
	ValidCount     int       `json:"valid_count" validate:"min=0"`
	NoRecordCount  int       `json:"no_record_count" validate:"min=0"`
	InvalidCount   int       `json:"invalid_count" validate:"min=0"`
}

// WeekKey identifies an ISO-8601 week: weeks start on Monday and week 1 is
// the one containing the year's first Thursday. The ISO year can differ from
// the calendar year at year boundaries (2024-12-30 belongs to 2025-W01).
type WeekKey struct {
	ISOYear int `json:"iso_year" validate:"required"`
	ISOWeek int `json:"iso_week" validate:"required,min=1,max=53"`
}

// WeekKeyOf returns the ISO week containing t.
func WeekKeyOf(t time.Time) WeekKey {
	year, week := t.ISOWeek()
	return WeekKey{ISOYear: year, ISOWeek: week}
}

// String renders the key as "2025-W01" (zero-padded week number).
func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.ISOYear, k.ISOWeek)
}

// Before reports whether k is chronologically earlier than other.
func (k WeekKey) Before(other WeekKey) bool {
	if k.ISOYear != other.ISOYear {
		return k.ISOYear < other.ISOYear
	}
	return k.ISOWeek < other.ISOWeek
}

// DateRange returns the Monday and Sunday of the week, at midnight UTC.
func (k WeekKey) DateRange() (time.Time, time.Time) {
	// January 4 is always inside ISO week 1 of its year.
	jan4 := time.Date(k.ISOYear, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	monday := week1Monday.AddDate(0, 0, (k.ISOWeek-1)*7)
	return monday, monday.AddDate(0, 0, 6)
}

var weekKeyPattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// ParseWeekKey parses a "2025-W01" label into a WeekKey.
func ParseWeekKey(s string) (WeekKey, error) {
	m := weekKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return WeekKey{}, fmt.Errorf("week %q must be in format YYYY-Www", s)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > 53 {
		return WeekKey{}, fmt.Errorf("week number %d out of range 1..53", week)
	}
	return WeekKey{ISOYear: year, ISOWeek: week}, nil
}

// WeekSummary represents one worker's total for one ISO week.
type WeekSummary struct {
	UserID     string  `json:"user_id" validate:"required"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Week       WeekKey `json:"week" validate:"required"`
	TotalHours float64 `json:"total_hours"`
}

// MonthKey identifies a calendar month.
type MonthKey struct {
	Year  int        `json:"year" validate:"required"`
	Month time.Month `json:"month" validate:"required,min=1,max=12"`
}

// MonthKeyOf returns the calendar month containing t.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String renders the key as "2025-03".
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Before reports whether k is chronologically earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// DateRange returns the first and last day of the month, at midnight UTC.
func (k MonthKey) DateRange() (time.Time, time.Time) {
	first := time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// MonthSummary represents one worker's total for one calendar month.
type MonthSummary struct {
	UserID     string   `json:"user_id" validate:"required"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	Month      MonthKey `json:"month" validate:"required"`
	TotalHours float64  `json:"total_hours"`
}

// ReportFilter selects a subset of workers and weeks from a processed report.
// Empty slices leave the corresponding dimension unfiltered. Filtering is a
// pure projection: totals are never recomputed from the surviving rows.
type ReportFilter struct {
	Users []string  `json:"users,omitempty"`
	Weeks []WeekKey `json:"weeks,omitempty"`
}

// MatchesUser reports whether the given worker passes the user dimension.
func (f *ReportFilter) MatchesUser(userID string) bool {
	if len(f.Users) == 0 {
		return true
	}
	for _, u := range f.Users {
		if u == userID {
			return true
		}
	}
	return false
}

// MatchesWeek reports whether the given week passes the week dimension.
func (f *ReportFilter) MatchesWeek(k WeekKey) bool {
	if len(f.Weeks) == 0 {
		return true
	}
	for _, w := range f.Weeks {
		if w == k {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the filter selects everything.
func (f *ReportFilter) IsEmpty() bool {
	return len(f.Users) == 0 && len(f.Weeks) == 0
}

// ReportMetadata tracks source and processing information for one run,
// for audit purposes.
type ReportMetadata struct {
	ID             string    `json:"id" db:"id" validate:"required,uuid"`
	FileName       string    `json:"file_name" db:"file_name" validate:"required"`
	FileSize       int64     `json:"file_size" db:"file_size" validate:"min=0"`
	RowsRead       int       `json:"rows_read" db:"rows_read" validate:"min=0"`
	RowsRejected   int       `json:"rows_rejected" db:"rows_rejected" validate:"min=0"`
	ValidCount     int       `json:"valid_count" db:"valid_count" validate:"min=0"`
	NoRecordCount  int       `json:"no_record_count" db:"no_record_count" validate:"min=0"`
	InvalidCount   int       `json:"invalid_count" db:"invalid_count" validate:"min=0"`
	ProcessedAt    time.Time `json:"processed_at" db:"processed_at"`
	ProcessingTime int64     `json:"processing_time_ms" db:"processing_time_ms"` // milliseconds
	Status         string    `json:"status" db:"status" validate:"required,oneof=completed failed"`
}
