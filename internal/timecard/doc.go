// Package timecard turns raw punch-clock workbook rows into per-worker
// worked-hours tables. It owns the complete transformation from Excel
// ingestion to daily, weekly and monthly totals.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Parser: reads the punch workbook and extracts typed punch records
// 2. Normalizer: classifies each record as valid, no-record or invalid
// 3. Aggregator: rolls normalized records up into day/week/month summaries
// 4. Pipeline: runs the stages over one workbook and returns a Result
//
// # Usage
//
// Typical batch run:
//
//	pipeline := timecard.NewPipeline(logger, timecard.ParserConfig{})
//	result, err := pipeline.Run(ctx, "fichajes.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Narrowing a result to selected workers and weeks:
//
//	view := result.Filter(domain.ReportFilter{Users: []string{"ana@acme.com"}})
//
// # Data Flow
//
// The typical data flow through this package:
//
//	Excel file → Parser → PunchRecords → Normalizer → NormalizedRecords →
//	Aggregator → Day/Week/Month summaries → Result
//
// # Error Handling
//
// Structural faults (missing required column, unreadable workbook) abort the
// run. Row-level faults never do: rejected rows accumulate as RowErrors and
// suspicious durations as Diagnostics, both carried on the Result so callers
// can report them next to whatever valid data remains.
//
// # Determinism
//
// Every table a run produces is sorted (worker, then period), so two runs
// over the same workbook yield deeply equal Results.
package timecard
