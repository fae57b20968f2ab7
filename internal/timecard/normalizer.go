package timecard

import (
	"context"
	"log/slog"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// sentinelYear is the year the punch device stamps on a check-out it never
// received (01/01/0001 00:00:00 and variants).
const sentinelYear = 1

// Normalizer classifies parsed punch records and computes their durations.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize classifies every record:
//   - missing or sentinel check-out → no-record, nil duration
//   - check-out before check-in → invalid, excluded from all totals, with a
//     diagnostic carrying the negative figure
//   - otherwise → valid, with a fractional unrounded hour count
//
// The input order is preserved; no record is dropped.
func (n *Normalizer) Normalize(ctx context.Context, records []domain.PunchRecord) ([]domain.NormalizedRecord, []Diagnostic) {
	normalized := make([]domain.NormalizedRecord, 0, len(records))
	var diagnostics []Diagnostic

	for _, rec := range records {
		out := domain.NormalizedRecord{PunchRecord: rec}

		if rec.CheckOut == nil || rec.CheckOut.Year() == sentinelYear {
			out.Status = domain.PunchStatusNoRecord
			normalized = append(normalized, out)
			continue
		}

		hours := rec.CheckOut.Sub(rec.CheckIn).Hours()
		out.DurationHours = &hours

		if hours < 0 {
			out.Status = domain.PunchStatusInvalid
			diagnostics = append(diagnostics, Diagnostic{
				Row:    rec.Row,
				UserID: rec.UserID,
				Err:    errors.NewInvalidDurationError(rec.Row, rec.UserID, rec.CheckIn, *rec.CheckOut, hours),
			})
			n.logger.WarnContext(ctx, "check-out precedes check-in",
				slog.Int("row", rec.Row),
				slog.String("user_id", rec.UserID),
				slog.Float64("hours", hours))
		} else {
			out.Status = domain.PunchStatusValid
		}

		normalized = append(normalized, out)
	}

	n.logger.DebugContext(ctx, "records normalized",
		slog.Int("total", len(normalized)),
		slog.Int("diagnostics", len(diagnostics)))

	return normalized, diagnostics
}
