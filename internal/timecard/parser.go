package timecard

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// DefaultHeaderRow is the 1-based sheet row where punch-clock exports place
// their column labels; the rows above it are banner/preamble cells.
const DefaultHeaderRow = 7

// requiredColumns are the header labels a punch sheet must carry, matched
// case-insensitively after trimming. Column order is free and extra columns
// are ignored.
var requiredColumns = []struct {
	key   string // normalized match key
	label string // canonical label for error reporting
}{
	{"usuario", "Usuario"},
	{"nombre", "Nombre"},
	{"apellidos", "Apellidos"},
	{"inicio", "Inicio"},
	{"fin", "Fin"},
}

// timestampLayouts are tried in order against cell text. The punch device
// writes day-first timestamps; the later layouts tolerate exports that went
// through other tools.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParserConfig holds configuration options for the Parser.
type ParserConfig struct {
	SheetName string // sheet to read; empty selects the workbook's first sheet
	HeaderRow int    // 1-based row holding the column labels; 0 means DefaultHeaderRow
}

// Parser reads a punch-clock workbook and extracts typed punch records.
// Row-level faults accumulate as RowErrors; only structural faults (missing
// column, unreadable workbook) abort the parse.
type Parser struct {
	logger    *slog.Logger
	sheetName string
	headerRow int
}

// NewParser creates a parser with the given configuration.
func NewParser(logger *slog.Logger, config ParserConfig) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if config.HeaderRow <= 0 {
		config.HeaderRow = DefaultHeaderRow
	}

	return &Parser{
		logger:    logger,
		sheetName: config.SheetName,
		headerRow: config.HeaderRow,
	}
}

// ParseFile reads the workbook at path and extracts its punch records.
func (p *Parser) ParseFile(ctx context.Context, path string) ([]domain.PunchRecord, []RowError, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	return p.parseWorkbook(ctx, f, path)
}

// ParseReader is like ParseFile but consumes an already-open workbook
// stream. name is used for logging only.
func (p *Parser) ParseReader(ctx context.Context, name string, r io.Reader) ([]domain.PunchRecord, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to read workbook %s", name), err)
	}
	defer f.Close()

	return p.parseWorkbook(ctx, f, name)
}

func (p *Parser) parseWorkbook(ctx context.Context, f *excelize.File, name string) ([]domain.PunchRecord, []RowError, error) {
	sheet := p.sheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, errors.NewParsingError(fmt.Sprintf("workbook %s has no sheets", name), nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	p.logger.InfoContext(ctx, "parsing punch workbook",
		slog.String("file", name),
		slog.String("sheet", sheet),
		slog.Int("total_rows", len(rows)))

	columns, err := p.mapColumns(rows)
	if err != nil {
		return nil, nil, err
	}

	userIdx := columns["usuario"]
	firstNameIdx := columns["nombre"]
	lastNameIdx := columns["apellidos"]
	checkInIdx := columns["inicio"]
	checkOutIdx := columns["fin"]

	var (
		records   []domain.PunchRecord
		rowErrors []RowError
	)

	for i := p.headerRow; i < len(rows); i++ {
		row := rows[i]
		sheetRow := i + 1

		if rowIsEmpty(row) {
			continue
		}

		userID := cellAt(row, userIdx)
		firstName := cellAt(row, firstNameIdx)
		lastName := cellAt(row, lastNameIdx)
		checkInRaw := cellAt(row, checkInIdx)
		checkOutRaw := cellAt(row, checkOutIdx)

		var missing string
		switch {
		case userID == "":
			missing = "Usuario"
		case firstName == "":
			missing = "Nombre"
		case lastName == "":
			missing = "Apellidos"
		case checkInRaw == "":
			missing = "Inicio"
		}
		if missing != "" {
			rowErrors = append(rowErrors, RowError{
				Row:   sheetRow,
				Field: missing,
				Err:   errors.NewMissingFieldError(sheetRow, missing),
			})
			p.logger.DebugContext(ctx, "rejected row with empty required field",
				slog.Int("row", sheetRow),
				slog.String("field", missing))
			continue
		}

		checkIn, err := parseTimestamp(checkInRaw)
		if err != nil {
			rowErrors = append(rowErrors, RowError{
				Row:   sheetRow,
				Field: "Inicio",
				Err:   errors.NewInvalidTimestampError(sheetRow, "Inicio", checkInRaw, err),
			})
			p.logger.DebugContext(ctx, "rejected row with unparseable check-in",
				slog.Int("row", sheetRow),
				slog.String("value", checkInRaw))
			continue
		}

		var checkOut *time.Time
		if checkOutRaw != "" {
			if out, parseErr := parseTimestamp(checkOutRaw); parseErr == nil {
				checkOut = &out
			} else {
				// An unreadable check-out counts as a missing one; the
				// normalizer turns it into a no-record entry.
				p.logger.DebugContext(ctx, "treating unparseable check-out as missing",
					slog.Int("row", sheetRow),
					slog.String("value", checkOutRaw))
			}
		}

		records = append(records, domain.PunchRecord{
			UserID:    userID,
			FirstName: firstName,
			LastName:  lastName,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			Row:       sheetRow,
		})
	}

	if len(rowErrors) > 0 {
		p.logger.WarnContext(ctx, "rejected rows during parse",
			slog.Int("rejected", len(rowErrors)),
			slog.Int("parsed", len(records)))
	}

	p.logger.InfoContext(ctx, "workbook parsed",
		slog.Int("records", len(records)),
		slog.Int("rejected", len(rowErrors)))

	return records, rowErrors, nil
}

// mapColumns locates the required columns on the configured header row.
// All of them must be present; the error names the first one missing and
// lists the labels that were found.
func (p *Parser) mapColumns(rows [][]string) (map[string]int, error) {
	var header []string
	if len(rows) >= p.headerRow {
		header = rows[p.headerRow-1]
	}

	columns := make(map[string]int, len(requiredColumns))
	var found []string

	for idx, cell := range header {
		label := strings.TrimSpace(cell)
		if label == "" {
			continue
		}
		found = append(found, label)

		key := strings.ToLower(label)
		for _, col := range requiredColumns {
			if key == col.key {
				if _, dup := columns[key]; !dup {
					columns[key] = idx
				}
				break
			}
		}
	}

	for _, col := range requiredColumns {
		if _, ok := columns[col.key]; !ok {
			return nil, errors.NewSchemaError(col.label, found)
		}
	}

	return columns, nil
}

// parseTimestamp parses cell text against the known layouts, falling back to
// Excel serial date numbers for cells some producers emit unformatted.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// cellAt returns the trimmed cell at idx, or "" when the row is too short.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowIsEmpty reports whether every cell in the row is blank.
func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
