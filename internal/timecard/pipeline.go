package timecard

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lmgallego/control-horas/internal/infrastructure"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

// Pipeline runs parse → normalize → aggregate over one workbook. It holds
// no cross-run state and is safe to reuse across runs.
type Pipeline struct {
	logger     *slog.Logger
	parser     *Parser
	normalizer *Normalizer
	aggregator *Aggregator
}

// NewPipeline creates a pipeline with the given parser configuration.
func NewPipeline(logger *slog.Logger, config ParserConfig) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		logger:     logger,
		parser:     NewParser(logger, config),
		normalizer: NewNormalizer(logger),
		aggregator: NewAggregator(logger),
	}
}

// Run processes the workbook at path and returns the complete result.
// Schema and open failures return an error and no result; row-level faults
// ride on the result instead.
func (p *Pipeline) Run(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	var fileSize int64
	if info, err := os.Stat(path); err == nil {
		fileSize = info.Size()
	}

	records, rowErrors, err := p.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}

	return p.buildResult(ctx, filepath.Base(path), fileSize, records, rowErrors, start), nil
}

// RunReader is like Run but consumes an already-open workbook stream.
// name is used for reporting only.
func (p *Pipeline) RunReader(ctx context.Context, name string, r io.Reader) (*Result, error) {
	start := time.Now()

	records, rowErrors, err := p.parser.ParseReader(ctx, name, r)
	if err != nil {
		return nil, err
	}

	return p.buildResult(ctx, name, 0, records, rowErrors, start), nil
}

func (p *Pipeline) buildResult(ctx context.Context, fileName string, fileSize int64, records []domain.PunchRecord, rowErrors []RowError, start time.Time) *Result {
	normalized, diagnostics := p.normalizer.Normalize(ctx, records)

	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].UserID != normalized[j].UserID {
			return normalized[i].UserID < normalized[j].UserID
		}
		if !normalized[i].CheckIn.Equal(normalized[j].CheckIn) {
			return normalized[i].CheckIn.Before(normalized[j].CheckIn)
		}
		return normalized[i].Row < normalized[j].Row
	})

	daily := p.aggregator.SummarizeDays(ctx, normalized)
	weekly := p.aggregator.SummarizeWeeks(ctx, daily)
	monthly := p.aggregator.SummarizeMonths(ctx, daily)

	stats := domain.ReportMetadata{
		ID:           runID(ctx),
		FileName:     fileName,
		FileSize:     fileSize,
		RowsRead:     len(records) + len(rowErrors),
		RowsRejected: len(rowErrors),
		ProcessedAt:  time.Now().UTC(),
		Status:       "completed",
	}
	for i := range normalized {
		switch normalized[i].Status {
		case domain.PunchStatusValid:
			stats.ValidCount++
		case domain.PunchStatusNoRecord:
			stats.NoRecordCount++
		case domain.PunchStatusInvalid:
			stats.InvalidCount++
		}
	}
	stats.ProcessingTime = time.Since(start).Milliseconds()

	p.logger.InfoContext(ctx, "workbook processed",
		slog.String("file", fileName),
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("rows_rejected", stats.RowsRejected),
		slog.Int("valid", stats.ValidCount),
		slog.Int("no_record", stats.NoRecordCount),
		slog.Int("invalid", stats.InvalidCount),
		slog.Int64("elapsed_ms", stats.ProcessingTime))

	return &Result{
		Events:      normalized,
		Daily:       daily,
		Weekly:      weekly,
		Monthly:     monthly,
		RowErrors:   rowErrors,
		Diagnostics: diagnostics,
		Stats:       stats,
	}
}

// runID reuses the run ID carried by the logging context when present, so
// the stats line up with the log stream of the same run.
func runID(ctx context.Context) string {
	if id := infrastructure.GetRunID(ctx); id != "" {
		return id
	}
	return uuid.New().String()
}
