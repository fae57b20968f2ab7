// Package config provides centralized configuration management for the
// control-horas tool. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HORAS_* for namespacing:
//
//	HORAS_INPUT_HEADER_ROW=7
//	HORAS_REPORTS_DIR=reports
//	HORAS_REPORTS_CSV_ENABLED=true
//	HORAS_LOGGING_LEVEL=info
//	HORAS_EXPORT_CONCURRENCY=4
//
// # Configuration Structure
//
// The configuration is split into sections: Input describes the punch
// workbook layout (sheet name, header row), Reports names the output
// directory and report files, Logging selects level/format/output, and
// Export tunes report generation.
//
// # Validation
//
// All configuration is validated at load time with struct tags: required
// fields are present, enum fields hold one of their allowed values, numeric
// fields are within acceptable ranges.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
