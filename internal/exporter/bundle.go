package exporter

import (
	"archive/zip"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lmgallego/control-horas/internal/errors"
	"github.com/lmgallego/control-horas/internal/timecard"
)

// BundleName is the default file name of the per-worker ZIP bundle.
const BundleName = "horas_por_trabajador.zip"

// defaultBundleConcurrency bounds workbook builds when no limit is configured.
const defaultBundleConcurrency = 4

// BundleConfig tunes bundle generation.
type BundleConfig struct {
	// Concurrency bounds the number of per-worker workbooks built in parallel.
	Concurrency int
}

// BundleExporter packs one workbook per worker into a single ZIP archive.
// Workbooks are built concurrently; the archive itself is assembled in
// sorted worker order so two runs over the same input produce the same
// entry sequence.
type BundleExporter struct {
	logger      *slog.Logger
	concurrency int
}

// NewBundleExporter creates a bundle exporter.
func NewBundleExporter(logger *slog.Logger, config BundleConfig) *BundleExporter {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = defaultBundleConcurrency
	}
	return &BundleExporter{logger: logger, concurrency: config.Concurrency}
}

// Export writes the ZIP bundle to path. Every worker present in the result
// gets one entry named after their identifier.
func (e *BundleExporter) Export(ctx context.Context, result *timecard.Result, path string) error {
	users := result.Users()

	e.logger.InfoContext(ctx, "writing per-worker bundle",
		slog.String("path", path),
		slog.Int("workers", len(users)),
		slog.Int("concurrency", e.concurrency))

	workbooks := make([][]byte, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, userID := range users {
		i, userID := i, userID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f, err := buildWorkerWorkbook(result, userID)
			if err != nil {
				return errors.NewStorageError("failed to build worker workbook", err).
					WithContext("user_id", userID)
			}
			defer f.Close()

			buf, err := f.WriteToBuffer()
			if err != nil {
				return errors.NewStorageError("failed to encode worker workbook", err).
					WithContext("user_id", userID)
			}
			workbooks[i] = buf.Bytes()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create bundle file", err)
	}

	zw := zip.NewWriter(out)
	for i, userID := range users {
		entry, err := zw.Create(BundleEntryName(userID))
		if err != nil {
			zw.Close()
			out.Close()
			return errors.NewStorageError("failed to add bundle entry", err).
				WithContext("user_id", userID)
		}
		if _, err := entry.Write(workbooks[i]); err != nil {
			zw.Close()
			out.Close()
			return errors.NewStorageError("failed to write bundle entry", err).
				WithContext("user_id", userID)
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return errors.NewStorageError("failed to finalize bundle", err)
	}
	if err := out.Close(); err != nil {
		return errors.NewStorageError("failed to close bundle file", err)
	}

	e.logger.InfoContext(ctx, "per-worker bundle written",
		slog.String("path", path),
		slog.Int("entries", len(users)))
	return nil
}

// BundleEntryName maps a worker identifier to its archive entry name.
// "@" is flattened to "_at_" so entries extract cleanly on any filesystem.
func BundleEntryName(userID string) string {
	return strings.ReplaceAll(userID, "@", "_at_") + ".xlsx"
}
