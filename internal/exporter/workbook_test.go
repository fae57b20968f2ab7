package exporter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/internal/timecard"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func normalizedEvent(userID, firstName, lastName string, checkIn time.Time, checkOut *time.Time, status domain.PunchStatus, hours *float64) domain.NormalizedRecord {
	return domain.NormalizedRecord{
		PunchRecord: domain.PunchRecord{
			UserID:    userID,
			FirstName: firstName,
			LastName:  lastName,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
		},
		Status:        status,
		DurationHours: hours,
	}
}

// exportFixture builds a small processed result: two workers across two ISO
// weeks of March 2024, including a missing check-out and a negative duration.
func exportFixture() *timecard.Result {
	anaMon := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	anaTue := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	anaNext := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	luisMon := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	luisWed := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	week10 := domain.WeekKey{ISOYear: 2024, ISOWeek: 10}
	week11 := domain.WeekKey{ISOYear: 2024, ISOWeek: 11}
	march := domain.MonthKey{Year: 2024, Month: time.March}

	return &timecard.Result{
		Events: []domain.NormalizedRecord{
			normalizedEvent("ana@acme.com", "Ana", "García", anaMon,
				timePtr(anaMon.Add(8*time.Hour+30*time.Minute)), domain.PunchStatusValid, floatPtr(8.5)),
			normalizedEvent("ana@acme.com", "Ana", "García", anaTue,
				nil, domain.PunchStatusNoRecord, nil),
			normalizedEvent("ana@acme.com", "Ana", "García", anaNext,
				timePtr(anaNext.Add(4*time.Hour)), domain.PunchStatusValid, floatPtr(4)),
			normalizedEvent("luis", "Luis", "Pérez", luisMon,
				timePtr(luisMon.Add(-time.Hour)), domain.PunchStatusInvalid, floatPtr(-1)),
			normalizedEvent("luis", "Luis", "Pérez", luisWed,
				timePtr(luisWed.Add(8*time.Hour)), domain.PunchStatusValid, floatPtr(8)),
		},
		Daily: []domain.DaySummary{
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García",
				Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), TotalHours: 8.5, ValidCount: 1},
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García",
				Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), HadAnyNoRecord: true, NoRecordCount: 1},
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García",
				Date: time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), TotalHours: 4, ValidCount: 1},
			{UserID: "luis", FirstName: "Luis", LastName: "Pérez",
				Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), HadAnyNoRecord: true, InvalidCount: 1},
			{UserID: "luis", FirstName: "Luis", LastName: "Pérez",
				Date: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), TotalHours: 8, ValidCount: 1},
		},
		Weekly: []domain.WeekSummary{
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García", Week: week10, TotalHours: 8.5},
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García", Week: week11, TotalHours: 4},
			{UserID: "luis", FirstName: "Luis", LastName: "Pérez", Week: week10, TotalHours: 8},
		},
		Monthly: []domain.MonthSummary{
			{UserID: "ana@acme.com", FirstName: "Ana", LastName: "García", Month: march, TotalHours: 12.5},
			{UserID: "luis", FirstName: "Luis", LastName: "Pérez", Month: march, TotalHours: 8},
		},
		RowErrors: []timecard.RowError{
			{Row: 9, Field: "Usuario", Err: errors.NewMissingFieldError(9, "Usuario")},
		},
		Diagnostics: []timecard.Diagnostic{
			{Row: 16, UserID: "luis", Err: errors.NewInvalidDurationError(16, "luis", luisMon, luisMon.Add(-time.Hour), -1)},
		},
		Stats: domain.ReportMetadata{
			ID:            "run-1",
			FileName:      "fichajes.xlsx",
			RowsRead:      6,
			RowsRejected:  1,
			ValidCount:    3,
			NoRecordCount: 1,
			InvalidCount:  1,
			Status:        "completed",
		},
	}
}

func TestWorkbookExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horas_resumen.xlsx")

	err := NewWorkbookExporter(nil).Export(context.Background(), exportFixture(), path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheetName, WeeklyTotalsSheetName, MonthlyTotalsSheetName}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheetName)
	require.NoError(t, err)
	require.Len(t, rows, 9) // header + 5 punches + 3 subtotal rows

	assert.Equal(t, []string{
		"Semana", "Año", "Mes", "Fecha", "Usuario", "Nombre", "Apellidos",
		"Hora inicio", "Hora fin", "Total horas",
	}, rows[0])

	// Ana's first week: two punches, one without check-out, then the subtotal.
	assert.Equal(t, []string{
		"2024-W10", "2024", "2024-03", "04/03/2024", "ana@acme.com", "ANA", "GARCÍA",
		"09:00:00", "17:30:00", "08:30:00",
	}, rows[1])
	assert.Equal(t, []string{
		"2024-W10", "2024", "2024-03", "05/03/2024", "ana@acme.com", "ANA", "GARCÍA",
		"08:00:00", "Sin registro", "Sin registro",
	}, rows[2])
	assert.Equal(t, []string{
		"", "", "", "", "Subtotal ana@acme.com", "", "", "", "", "08:30:00",
	}, rows[3])

	// Ana's second week closes with its own subtotal.
	assert.Equal(t, "2024-W11", rows[4][0])
	assert.Equal(t, []string{
		"", "", "", "", "Subtotal ana@acme.com", "", "", "", "", "04:00:00",
	}, rows[5])

	// Luis: the negative punch stays visible but the subtotal only counts
	// the valid one.
	assert.Equal(t, []string{
		"2024-W10", "2024", "2024-03", "04/03/2024", "luis", "LUIS", "PÉREZ",
		"10:00:00", "09:00:00", "-01:00:00",
	}, rows[6])
	assert.Equal(t, "06/03/2024", rows[7][3])
	assert.Equal(t, []string{
		"", "", "", "", "Subtotal luis", "", "", "", "", "08:00:00",
	}, rows[8])
}

func TestWorkbookExporter_Export_TotalsSheets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horas_resumen.xlsx")

	err := NewWorkbookExporter(nil).Export(context.Background(), exportFixture(), path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	weekly, err := f.GetRows(WeeklyTotalsSheetName)
	require.NoError(t, err)
	require.Len(t, weekly, 4)
	assert.Equal(t, []string{"Usuario", "Nombre", "Apellidos", "Semana", "Total horas"}, weekly[0])
	assert.Equal(t, []string{"ana@acme.com", "ANA", "GARCÍA", "2024-W10", "08:30:00"}, weekly[1])
	assert.Equal(t, []string{"ana@acme.com", "ANA", "GARCÍA", "2024-W11", "04:00:00"}, weekly[2])
	assert.Equal(t, []string{"luis", "LUIS", "PÉREZ", "2024-W10", "08:00:00"}, weekly[3])

	monthly, err := f.GetRows(MonthlyTotalsSheetName)
	require.NoError(t, err)
	require.Len(t, monthly, 3)
	assert.Equal(t, []string{"Usuario", "Nombre", "Apellidos", "Mes", "Total horas"}, monthly[0])
	assert.Equal(t, []string{"ana@acme.com", "ANA", "GARCÍA", "2024-03", "12:30:00"}, monthly[1])
	assert.Equal(t, []string{"luis", "LUIS", "PÉREZ", "2024-03", "08:00:00"}, monthly[2])
}

func TestWorkbookExporter_Export_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "horas_resumen.xlsx")

	err := NewWorkbookExporter(nil).Export(context.Background(), &timecard.Result{}, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheetName, WeeklyTotalsSheetName, MonthlyTotalsSheetName}, f.GetSheetList())

	rows, err := f.GetRows(SummarySheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1) // headers only
}

func TestWorkbookExporter_Export_CreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salidas", "marzo", "horas_resumen.xlsx")

	err := NewWorkbookExporter(nil).Export(context.Background(), exportFixture(), path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	assert.NoError(t, f.Close())
}
