package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lmgallego/control-horas/internal/timecard"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// File names for the CSV table dumps written next to the results workbook.
const (
	DailyCSVName    = "horas_dia.csv"
	WeeklyCSVName   = "horas_semana.csv"
	MonthlyCSVName  = "horas_mes.csv"
	EventsCSVName   = "registros.csv"
	RejectedCSVName = "filas_rechazadas.csv"
)

// TableExporter dumps the aggregated tables of a processing result as
// UTF-8 BOM CSV files so they open cleanly in Excel.
type TableExporter struct {
	logger    *slog.Logger
	csvWriter *CSVWriter
}

// NewTableExporter creates a table exporter writing into outDir.
func NewTableExporter(logger *slog.Logger, outDir string) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExporter{
		logger:    logger,
		csvWriter: NewCSVWriter(logger, outDir),
	}
}

// ExportAll writes the daily, weekly and monthly tables plus the
// per-punch detail and the rejected-row digest.
func (e *TableExporter) ExportAll(ctx context.Context, result *timecard.Result) error {
	e.logger.InfoContext(ctx, "writing CSV table dumps",
		slog.Int("daily", len(result.Daily)),
		slog.Int("weekly", len(result.Weekly)),
		slog.Int("monthly", len(result.Monthly)))

	if err := e.ExportDaily(result.Daily); err != nil {
		return fmt.Errorf("failed to write daily table: %w", err)
	}
	if err := e.ExportWeekly(result.Weekly); err != nil {
		return fmt.Errorf("failed to write weekly table: %w", err)
	}
	if err := e.ExportMonthly(result.Monthly); err != nil {
		return fmt.Errorf("failed to write monthly table: %w", err)
	}
	if err := e.ExportEvents(result.Events); err != nil {
		return fmt.Errorf("failed to write event detail: %w", err)
	}
	if err := e.ExportRejections(result.RowErrors); err != nil {
		return fmt.Errorf("failed to write rejection digest: %w", err)
	}
	return nil
}

// ExportDaily writes one row per user and civil day.
func (e *TableExporter) ExportDaily(days []domain.DaySummary) error {
	var records [][]string
	for _, day := range days {
		records = append(records, e.dayToCSVRow(day))
	}
	return e.csvWriter.WriteSimpleCSV(DailyCSVName, e.dailyHeaders(), records)
}

// ExportWeekly writes one row per user and ISO week.
func (e *TableExporter) ExportWeekly(weeks []domain.WeekSummary) error {
	var records [][]string
	for _, week := range weeks {
		records = append(records, e.weekToCSVRow(week))
	}
	return e.csvWriter.WriteSimpleCSV(WeeklyCSVName, e.weeklyHeaders(), records)
}

// ExportMonthly writes one row per user and calendar month.
func (e *TableExporter) ExportMonthly(months []domain.MonthSummary) error {
	var records [][]string
	for _, month := range months {
		records = append(records, e.monthToCSVRow(month))
	}
	return e.csvWriter.WriteSimpleCSV(MonthlyCSVName, e.monthlyHeaders(), records)
}

// ExportEvents streams the full normalized punch detail, one row per punch.
// Streaming keeps memory flat on reports with many thousands of rows.
func (e *TableExporter) ExportEvents(events []domain.NormalizedRecord) error {
	stream, err := e.csvWriter.CreateStreamWriter(EventsCSVName, e.eventHeaders())
	if err != nil {
		return err
	}
	for _, event := range events {
		if err := stream.WriteRecord(e.eventToCSVRow(event)); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}

// ExportRejections writes the rows the parser had to discard, with the
// offending field and the reason. The file is written even when empty so
// a missing file never hides rejections from a previous run.
func (e *TableExporter) ExportRejections(rowErrors []timecard.RowError) error {
	var records [][]string
	for _, rowErr := range rowErrors {
		records = append(records, []string{
			formatInt(rowErr.Row),
			rowErr.Field,
			rowErr.Err.Message,
		})
	}
	return e.csvWriter.WriteSimpleCSV(RejectedCSVName, []string{"Fila", "Campo", "Motivo"}, records)
}

func (e *TableExporter) dailyHeaders() []string {
	return []string{
		"Usuario", "Nombre", "Apellidos", "Fecha", "Total horas",
		"Sin registro", "Fichajes validos", "Fichajes sin salida", "Fichajes invalidos",
	}
}

func (e *TableExporter) dayToCSVRow(day domain.DaySummary) []string {
	return []string{
		day.UserID,
		upperName(day.FirstName),
		upperName(day.LastName),
		formatDate(day.Date),
		formatFloat(day.TotalHours),
		formatBool(day.HadAnyNoRecord),
		formatInt(day.ValidCount),
		formatInt(day.NoRecordCount),
		formatInt(day.InvalidCount),
	}
}

func (e *TableExporter) weeklyHeaders() []string {
	return []string{"Usuario", "Nombre", "Apellidos", "Semana", "Total horas"}
}

func (e *TableExporter) weekToCSVRow(week domain.WeekSummary) []string {
	return []string{
		week.UserID,
		upperName(week.FirstName),
		upperName(week.LastName),
		week.Week.String(),
		formatFloat(week.TotalHours),
	}
}

func (e *TableExporter) monthlyHeaders() []string {
	return []string{"Usuario", "Nombre", "Apellidos", "Mes", "Total horas"}
}

func (e *TableExporter) monthToCSVRow(month domain.MonthSummary) []string {
	return []string{
		month.UserID,
		upperName(month.FirstName),
		upperName(month.LastName),
		month.Month.String(),
		formatFloat(month.TotalHours),
	}
}

func (e *TableExporter) eventHeaders() []string {
	return []string{
		"Usuario", "Nombre", "Apellidos", "Fecha", "Hora inicio", "Hora fin", "Horas", "Estado",
	}
}

func (e *TableExporter) eventToCSVRow(event domain.NormalizedRecord) []string {
	checkOut := noRecordLabel
	hours := noRecordLabel
	if event.Status != domain.PunchStatusNoRecord && event.CheckOut != nil {
		checkOut = formatClock(*event.CheckOut)
	}
	if event.DurationHours != nil {
		hours = formatFloat(*event.DurationHours)
	}
	return []string{
		event.UserID,
		upperName(event.FirstName),
		upperName(event.LastName),
		formatDate(event.CheckIn),
		formatClock(event.CheckIn),
		checkOut,
		hours,
		string(event.Status),
	}
}
