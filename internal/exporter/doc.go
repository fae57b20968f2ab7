// Package exporter renders processed punch-clock results as Excel
// workbooks, ZIP bundles and CSV files.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// TableExporter: Dumps the daily, weekly and monthly tables plus the
// per-punch detail and the rejected-row digest as CSV files.
//
// WorkbookExporter: Builds the aggregated results workbook with the punch
// detail, per-worker weekly subtotal rows, and weekly/monthly totals sheets.
//
// BundleExporter: Packs one workbook per worker into a single ZIP archive,
// building the workbooks concurrently under a configurable bound.
//
// Example usage:
//
//	// Write the results workbook
//	workbook := exporter.NewWorkbookExporter(logger)
//	err := workbook.Export(ctx, result, "reports/horas_resumen.xlsx")
//
//	// Pack one workbook per worker
//	bundle := exporter.NewBundleExporter(logger, exporter.BundleConfig{Concurrency: 4})
//	err = bundle.Export(ctx, result, "reports/horas_por_trabajador.zip")
//
//	// Dump the aggregated tables as CSV
//	tables := exporter.NewTableExporter(logger, "reports")
//	err = tables.ExportAll(ctx, result)
package exporter
