package timecard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// Aggregator rolls normalized punch records up into per-worker summary
// tables. Each method produces a fresh sorted slice and leaves its input
// untouched.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// dayKey identifies one worker-day group.
type dayKey struct {
	userID string
	year   int
	month  time.Month
	day    int
}

// weekGroupKey identifies one worker-week group.
type weekGroupKey struct {
	userID string
	week   domain.WeekKey
}

// monthGroupKey identifies one worker-month group.
type monthGroupKey struct {
	userID string
	month  domain.MonthKey
}

// civilDate truncates t to its date at midnight UTC.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SummarizeDays groups records by worker and check-in date. Only valid
// records contribute hours; a day consisting solely of no-record or invalid
// punches still yields a zero-hour row so the worker's day stays visible.
// Names come from the group's first record in input order. Output is sorted
// by worker, then date.
func (a *Aggregator) SummarizeDays(ctx context.Context, records []domain.NormalizedRecord) []domain.DaySummary {
	groups := make(map[dayKey]*domain.DaySummary)

	for i := range records {
		rec := &records[i]
		key := dayKey{rec.UserID, rec.CheckIn.Year(), rec.CheckIn.Month(), rec.CheckIn.Day()}

		day, ok := groups[key]
		if !ok {
			day = &domain.DaySummary{
				UserID:    rec.UserID,
				FirstName: rec.FirstName,
				LastName:  rec.LastName,
				Date:      civilDate(rec.CheckIn),
			}
			groups[key] = day
		}

		day.TotalHours += rec.WorkedHours()
		switch rec.Status {
		case domain.PunchStatusValid:
			day.ValidCount++
		case domain.PunchStatusNoRecord:
			day.NoRecordCount++
			day.HadAnyNoRecord = true
		case domain.PunchStatusInvalid:
			day.InvalidCount++
			day.HadAnyNoRecord = true
		}
	}

	days := make([]domain.DaySummary, 0, len(groups))
	for _, day := range groups {
		days = append(days, *day)
	}

	sort.Slice(days, func(i, j int) bool {
		if days[i].UserID != days[j].UserID {
			return days[i].UserID < days[j].UserID
		}
		return days[i].Date.Before(days[j].Date)
	})

	a.logger.DebugContext(ctx, "daily summaries built",
		slog.Int("records", len(records)),
		slog.Int("days", len(days)))

	return days
}

// SummarizeWeeks rolls daily summaries up into ISO weeks. The week key comes
// from ISOWeek(), so late-December days can belong to week 1 of the next
// year. Output is sorted by worker, then week.
func (a *Aggregator) SummarizeWeeks(ctx context.Context, days []domain.DaySummary) []domain.WeekSummary {
	groups := make(map[weekGroupKey]*domain.WeekSummary)

	for _, day := range days {
		key := weekGroupKey{day.UserID, domain.WeekKeyOf(day.Date)}

		week, ok := groups[key]
		if !ok {
			week = &domain.WeekSummary{
				UserID:    day.UserID,
				FirstName: day.FirstName,
				LastName:  day.LastName,
				Week:      key.week,
			}
			groups[key] = week
		}
		week.TotalHours += day.TotalHours
	}

	weeks := make([]domain.WeekSummary, 0, len(groups))
	for _, week := range groups {
		weeks = append(weeks, *week)
	}

	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].UserID != weeks[j].UserID {
			return weeks[i].UserID < weeks[j].UserID
		}
		return weeks[i].Week.Before(weeks[j].Week)
	})

	a.logger.DebugContext(ctx, "weekly summaries built", slog.Int("weeks", len(weeks)))

	return weeks
}

// SummarizeMonths rolls daily summaries up into calendar months. A day
// belongs wholly to its calendar month; nothing is prorated. Output is
// sorted by worker, then month.
func (a *Aggregator) SummarizeMonths(ctx context.Context, days []domain.DaySummary) []domain.MonthSummary {
	groups := make(map[monthGroupKey]*domain.MonthSummary)

	for _, day := range days {
		key := monthGroupKey{day.UserID, domain.MonthKeyOf(day.Date)}

		month, ok := groups[key]
		if !ok {
			month = &domain.MonthSummary{
				UserID:    day.UserID,
				FirstName: day.FirstName,
				LastName:  day.LastName,
				Month:     key.month,
			}
			groups[key] = month
		}
		month.TotalHours += day.TotalHours
	}

	months := make([]domain.MonthSummary, 0, len(groups))
	for _, month := range groups {
		months = append(months, *month)
	}

	sort.Slice(months, func(i, j int) bool {
		if months[i].UserID != months[j].UserID {
			return months[i].UserID < months[j].UserID
		}
		return months[i].Month.Before(months[j].Month)
	})

	a.logger.DebugContext(ctx, "monthly summaries built", slog.Int("months", len(months)))

	return months
}
