package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmgallego/control-horas/internal/config"
	"github.com/lmgallego/control-horas/internal/exporter"
	"github.com/lmgallego/control-horas/internal/infrastructure"
	"github.com/lmgallego/control-horas/internal/timecard"
	"github.com/lmgallego/control-horas/internal/validation"
	"github.com/lmgallego/control-horas/pkg/contracts"
	"github.com/lmgallego/control-horas/pkg/contracts/domain"
)

func main() {
	inFile := flag.String("in", "", "input punch workbook (.xlsx) exported by the punch clock")
	outDir := flag.String("out", "", "output directory for reports (defaults to the configured reports dir)")
	users := flag.String("users", "", "comma-separated worker identifiers to keep (default: all)")
	weeks := flag.String("weeks", "", "comma-separated ISO weeks like 2024-W10 to keep (default: all)")
	perUserZip := flag.Bool("per-user-zip", false, "also pack one workbook per worker into a ZIP bundle")
	csvDump := flag.Bool("csv", false, "also dump the aggregated tables as CSV files")
	configPath := flag.String("config", "", "path to a YAML config file (default: config.yaml discovery)")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *inFile == "" {
		flag.Usage()
		slog.Error("missing required -in flag")
		os.Exit(1)
	}

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *outDir == "" {
		*outDir = cfg.Reports.Dir
	}
	writeCSV := *csvDump || cfg.Reports.CSVEnabled

	ctx := infrastructure.EnsureRunID(context.Background())

	logger.InfoContext(ctx, "starting punch workbook processing",
		slog.String("input", *inFile),
		slog.String("output_dir", *outDir),
		slog.Bool("per_user_zip", *perUserZip),
		slog.Bool("csv", writeCSV))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateExcelFile(*inFile); err != nil {
		logger.ErrorContext(ctx, "input validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		logger.ErrorContext(ctx, "output directory validation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	filter, err := buildFilter(*users, *weeks)
	if err != nil {
		logger.ErrorContext(ctx, "invalid filter flags", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pipeline := timecard.NewPipeline(logger, timecard.ParserConfig{
		SheetName: cfg.Input.SheetName,
		HeaderRow: cfg.Input.HeaderRow,
	})

	result, err := pipeline.Run(ctx, *inFile)
	if err != nil {
		logger.ErrorContext(ctx, "processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Surface every discarded row in the log, not just the counters
	for _, rowErr := range result.RowErrors {
		logger.WarnContext(ctx, "row rejected",
			slog.Int("row", rowErr.Row),
			slog.String("field", rowErr.Field),
			slog.String("reason", rowErr.Err.Message))
	}

	if !filter.IsEmpty() {
		before := len(result.Events)
		result = result.Filter(filter)
		logger.InfoContext(ctx, "filter applied",
			slog.String("users", *users),
			slog.String("weeks", *weeks),
			slog.Int("events_before", before),
			slog.Int("events_after", len(result.Events)))
	}

	workbookPath := filepath.Join(*outDir, cfg.Reports.WorkbookName)
	if err := exporter.NewWorkbookExporter(logger).Export(ctx, result, workbookPath); err != nil {
		logger.ErrorContext(ctx, "failed to write results workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *perUserZip {
		bundlePath := filepath.Join(*outDir, cfg.Reports.BundleName)
		bundle := exporter.NewBundleExporter(logger, exporter.BundleConfig{Concurrency: cfg.Export.Concurrency})
		if err := bundle.Export(ctx, result, bundlePath); err != nil {
			logger.ErrorContext(ctx, "failed to write per-worker bundle", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if writeCSV {
		if err := exporter.NewTableExporter(logger, *outDir).ExportAll(ctx, result); err != nil {
			logger.ErrorContext(ctx, "failed to write CSV table dumps", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "processing complete",
		slog.String("workbook", workbookPath),
		slog.Int("rows_read", result.Stats.RowsRead),
		slog.Int("rows_rejected", result.Stats.RowsRejected),
		slog.Int("valid", result.Stats.ValidCount),
		slog.Int("no_record", result.Stats.NoRecordCount),
		slog.Int("invalid", result.Stats.InvalidCount),
		slog.Int64("elapsed_ms", result.Stats.ProcessingTime))

	fmt.Printf("Processed %d rows (%d rejected): %s\n",
		result.Stats.RowsRead, result.Stats.RowsRejected, workbookPath)
}

// buildFilter turns the -users and -weeks flag values into a report filter.
func buildFilter(users, weeks string) (domain.ReportFilter, error) {
	filter := domain.ReportFilter{
		Users: splitCSVFlag(users),
	}
	for _, label := range splitCSVFlag(weeks) {
		week, err := domain.ParseWeekKey(label)
		if err != nil {
			return domain.ReportFilter{}, err
		}
		filter.Weeks = append(filter.Weeks, week)
	}
	return filter, nil
}

// splitCSVFlag splits a comma-separated flag value, dropping empty items.
func splitCSVFlag(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
