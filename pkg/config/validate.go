package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FieldError represents a validation error for a specific configuration
// field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "source.directory").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. All field errors are collected and returned together.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is
// valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateSource(&cfg.Source)...)
	errs = append(errs, validateArchive(cfg)...)
	errs = append(errs, validateGuard(&cfg.Guard)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateSource validates the source section.
func validateSource(cfg *SourceConfig) []FieldError {
	var errs []FieldError

	if cfg.Directory == "" {
		errs = append(errs, FieldError{
			Field:   "source.directory",
			Message: "segment directory is required",
		})
	}

	if cfg.Pattern == "" {
		errs = append(errs, FieldError{
			Field:   "source.pattern",
			Message: "segment pattern is required",
		})
	} else if _, err := filepath.Match(cfg.Pattern, "probe"); err != nil {
		errs = append(errs, FieldError{
			Field:   "source.pattern",
			Message: fmt.Sprintf("invalid glob pattern: %v", err),
		})
	}

	if cfg.RetainCount < 0 {
		errs = append(errs, FieldError{
			Field:   "source.retain_count",
			Message: "retain count must be non-negative",
		})
	}

	return errs
}

// validateArchive validates the archive section.
func validateArchive(cfg *Config) []FieldError {
	var errs []FieldError

	if cfg.Archive.Directory == "" {
		errs = append(errs, FieldError{
			Field:   "archive.directory",
			Message: "archive directory is required",
		})
	} else if cfg.Archive.Directory == cfg.Source.Directory {
		errs = append(errs, FieldError{
			Field:   "archive.directory",
			Message: "archive directory must differ from the source directory",
		})
	}

	if cfg.Archive.MaxUsedPercent <= 0 || cfg.Archive.MaxUsedPercent > 100 {
		errs = append(errs, FieldError{
			Field:   "archive.max_used_percent",
			Message: "max used percent must be within (0, 100]",
		})
	}

	return errs
}

// validateGuard validates the guard section.
func validateGuard(cfg *GuardConfig) []FieldError {
	var errs []FieldError

	if cfg.LockFile == "" {
		errs = append(errs, FieldError{
			Field:   "guard.lock_file",
			Message: "lock file path is required",
		})
	}

	if cfg.ConsumerProcess == "" {
		errs = append(errs, FieldError{
			Field:   "guard.consumer_process",
			Message: "consumer process name is required",
		})
	}

	if cfg.CopyTool.Path == "" {
		errs = append(errs, FieldError{
			Field:   "guard.copy_tool.path",
			Message: "copy tool path is required",
		})
	}

	return errs
}

// validateJournal validates the journal section.
func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !cfg.Disabled && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "journal path is required when the journal is enabled",
		})
	}

	return errs
}

// validateTelemetry validates the telemetry section.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q", cfg.Logging.Format),
		})
	}

	return errs
}
