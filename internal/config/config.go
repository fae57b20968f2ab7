package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Input   InputConfig   `yaml:"input" envconfig:"INPUT"`
	Reports ReportsConfig `yaml:"reports" envconfig:"REPORTS"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
}

// InputConfig describes how the punch workbook is laid out
type InputConfig struct {
	// SheetName selects the sheet to read; empty means the first sheet
	SheetName string `yaml:"sheet_name" envconfig:"SHEET_NAME"`
	// HeaderRow is the 1-based sheet row holding the column names
	HeaderRow int `yaml:"header_row" envconfig:"HEADER_ROW" validate:"min=1"`
}

// ReportsConfig contains report output configuration
type ReportsConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	WorkbookName string `yaml:"workbook_name" envconfig:"WORKBOOK_NAME" validate:"required"`
	BundleName   string `yaml:"bundle_name" envconfig:"BUNDLE_NAME" validate:"required"`
	CSVEnabled   bool   `yaml:"csv_enabled" envconfig:"CSV_ENABLED"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// ExportConfig tunes report generation
type ExportConfig struct {
	// Concurrency bounds the number of per-worker workbooks built in parallel
	Concurrency int `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"min=1,max=64"`
}

// Load loads configuration from defaults, an optional YAML file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path falls
// back to the usual discovery locations.
func LoadFrom(path string) (*Config, error) {
	cfg := *Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process("HORAS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile merges YAML file values over the current configuration
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}

	return nil
}

// normalize canonicalizes string fields before validation
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
}

// validate checks the configuration against its struct tags
func (c *Config) validate() error {
	v := validator.New()
	err := v.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return fmt.Errorf("invalid value for %s (%s=%v)",
			first.Namespace(), first.Tag(), first.Value())
	}
	return err
}

// findConfigFile returns the path to the config file
func findConfigFile() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			SheetName: "",
			HeaderRow: 7,
		},
		Reports: ReportsConfig{
			Dir:          "reports",
			WorkbookName: "horas_resumen.xlsx",
			BundleName:   "horas_por_trabajador.zip",
			CSVEnabled:   false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/controlhoras.log",
		},
		Export: ExportConfig{
			Concurrency: 4,
		},
	}
}
