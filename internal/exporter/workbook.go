package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/internal/timecard"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// Sheet names inside the results workbook.
const (
	SummarySheetName       = "Resumen"
	WeeklyTotalsSheetName  = "Totales semana"
	MonthlyTotalsSheetName = "Totales mes"
	// WorkerWeeklySheetName is the weekly sheet of each per-worker workbook
	// in the bundle, where it sits next to that worker's own Resumen.
	WorkerWeeklySheetName = "Subtotales semana"
)

// ResultsWorkbookName is the default file name of the aggregated workbook.
const ResultsWorkbookName = "horas_resumen.xlsx"

// WorkbookExporter renders a processing result as a multi-sheet Excel
// workbook: the punch detail with a subtotal row closing every
// worker-week block, plus weekly and monthly totals sheets.
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger}
}

// Export writes the results workbook to path, creating parent directories
// as needed.
func (e *WorkbookExporter) Export(ctx context.Context, result *timecard.Result, path string) error {
	e.logger.InfoContext(ctx, "writing results workbook",
		slog.String("path", path),
		slog.Int("events", len(result.Events)),
		slog.Int("weeks", len(result.Weekly)),
		slog.Int("months", len(result.Monthly)))

	f, err := buildSummaryWorkbook(result)
	if err != nil {
		return errors.NewStorageError("failed to build results workbook", err)
	}
	defer f.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save results workbook", err)
	}
	return nil
}

// buildSummaryWorkbook assembles the three-sheet results workbook in memory.
func buildSummaryWorkbook(result *timecard.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheetName); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, SummarySheetName, result); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(WeeklyTotalsSheetName); err != nil {
		return nil, err
	}
	if err := writeWeeklySheet(f, WeeklyTotalsSheetName, result.Weekly); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(MonthlyTotalsSheetName); err != nil {
		return nil, err
	}
	if err := writeMonthlySheet(f, MonthlyTotalsSheetName, result.Monthly); err != nil {
		return nil, err
	}
	return f, nil
}

// buildWorkerWorkbook renders the slice of the result belonging to a single
// worker as a two-sheet workbook.
func buildWorkerWorkbook(result *timecard.Result, userID string) (*excelize.File, error) {
	view := result.Filter(domain.ReportFilter{Users: []string{userID}})

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheetName); err != nil {
		return nil, err
	}
	if err := writeDetailSheet(f, SummarySheetName, view); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(WorkerWeeklySheetName); err != nil {
		return nil, err
	}
	if err := writeWeeklySheet(f, WorkerWeeklySheetName, view.Weekly); err != nil {
		return nil, err
	}
	return f, nil
}

// writeDetailSheet writes the punch detail ordered by worker and check-in.
// Events arrive already sorted, so a change of worker or ISO week closes the
// current block with its subtotal row before the next one starts.
func writeDetailSheet(f *excelize.File, sheet string, result *timecard.Result) error {
	headers := []interface{}{
		"Semana", "Año", "Mes", "Fecha", "Usuario", "Nombre", "Apellidos",
		"Hora inicio", "Hora fin", "Total horas",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	weekTotals := weeklyTotalsByUser(result.Weekly)

	rowNum := 2
	var blockUser string
	var blockWeek domain.WeekKey
	blockOpen := false

	writeSubtotal := func() error {
		row := []interface{}{
			nil, nil, nil, nil,
			fmt.Sprintf("Subtotal %s", blockUser),
			nil, nil, nil, nil,
			formatHours(weekTotals[blockUser][blockWeek]),
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		rowNum++
		return nil
	}

	for i := range result.Events {
		event := &result.Events[i]
		week := domain.WeekKeyOf(event.CheckIn)
		if blockOpen && (event.UserID != blockUser || week != blockWeek) {
			if err := writeSubtotal(); err != nil {
				return err
			}
		}
		row := eventRow(event, week)
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		rowNum++
		blockUser, blockWeek, blockOpen = event.UserID, week, true
	}

	if blockOpen {
		return writeSubtotal()
	}
	return nil
}

// eventRow renders one punch as a detail-sheet row. Missing check-outs show
// the no-record label in the check-out and total columns.
func eventRow(event *domain.NormalizedRecord, week domain.WeekKey) []interface{} {
	checkOut := interface{}(noRecordLabel)
	total := interface{}(noRecordLabel)
	if event.Status != domain.PunchStatusNoRecord && event.CheckOut != nil {
		checkOut = formatClock(*event.CheckOut)
	}
	if event.DurationHours != nil {
		total = formatHours(*event.DurationHours)
	}
	return []interface{}{
		week.String(),
		week.ISOYear,
		domain.MonthKeyOf(event.CheckIn).String(),
		formatDate(event.CheckIn),
		event.UserID,
		upperName(event.FirstName),
		upperName(event.LastName),
		formatClock(event.CheckIn),
		checkOut,
		total,
	}
}

// writeWeeklySheet writes one row per worker and ISO week.
func writeWeeklySheet(f *excelize.File, sheet string, weeks []domain.WeekSummary) error {
	headers := []interface{}{"Usuario", "Nombre", "Apellidos", "Semana", "Total horas"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, week := range weeks {
		row := []interface{}{
			week.UserID,
			upperName(week.FirstName),
			upperName(week.LastName),
			week.Week.String(),
			formatHours(week.TotalHours),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// writeMonthlySheet writes one row per worker and calendar month.
func writeMonthlySheet(f *excelize.File, sheet string, months []domain.MonthSummary) error {
	headers := []interface{}{"Usuario", "Nombre", "Apellidos", "Mes", "Total horas"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, month := range months {
		row := []interface{}{
			month.UserID,
			upperName(month.FirstName),
			upperName(month.LastName),
			month.Month.String(),
			formatHours(month.TotalHours),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// weeklyTotalsByUser indexes weekly totals for subtotal-row lookups.
func weeklyTotalsByUser(weeks []domain.WeekSummary) map[string]map[domain.WeekKey]float64 {
	totals := make(map[string]map[domain.WeekKey]float64)
	for _, week := range weeks {
		byWeek, ok := totals[week.UserID]
		if !ok {
			byWeek = make(map[domain.WeekKey]float64)
			totals[week.UserID] = byWeek
		}
		byWeek[week.Week] = week.TotalHours
	}
	return totals
}
