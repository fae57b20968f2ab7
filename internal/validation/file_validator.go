package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lmgallego/control-horas/internal/errors"
)

// FileValidator checks the punch workbook and the output location before a
// run touches either of them.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks that a file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("input file does not exist",
			slog.String("file", path))
		return errors.NewNotFoundError(fmt.Sprintf("input file %s", path))
	}
	if err != nil {
		v.logger.Error("failed to stat input file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewValidationError(fmt.Sprintf("failed to stat file %s: %v", path, err))
	}
	if info.IsDir() {
		v.logger.Error("input path is a directory, not a file",
			slog.String("path", path))
		return errors.NewValidationError(fmt.Sprintf("%s is a directory, not a file", path))
	}

	// Readability check; Stat alone does not prove we can open it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("input file is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return errors.NewValidationError(fmt.Sprintf("file %s is not readable: %v", path, err))
	}
	file.Close()

	v.logger.Debug("input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateExcelFile checks that a file looks like a punch workbook export
func (v *FileValidator) ValidateExcelFile(path string) error {
	if err := v.ValidateFile(path); err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".xlsx" && ext != ".xls" {
		v.logger.Error("input file is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return errors.NewValidationError(
			fmt.Sprintf("file %s is not an Excel workbook (extension: %s)", path, ext)).
			WithContext("extension", ext)
	}

	// Office lock files appear next to a workbook that is open in Excel
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("input file is a temporary Excel lock file",
			slog.String("file", path))
		return errors.NewValidationError(
			fmt.Sprintf("file %s is a temporary Excel lock file", path))
	}

	return nil
}

// ValidateOutputDirectory ensures the output directory exists, creating it
// if needed, and that it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	// Verify it's writable by creating a probe file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("output directory validated",
		slog.String("directory", dir))
	return nil
}
