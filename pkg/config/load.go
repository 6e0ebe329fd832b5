package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Variables follow the naming convention
// SEGVAULT_SECTION_FIELD (e.g. SEGVAULT_SOURCE_DIRECTORY) and always take
// precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies SEGVAULT_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("SEGVAULT_SOURCE_DIRECTORY"); val != "" {
		cfg.Source.Directory = val
	}
	if val := os.Getenv("SEGVAULT_SOURCE_PATTERN"); val != "" {
		cfg.Source.Pattern = val
	}
	if val := os.Getenv("SEGVAULT_SOURCE_RETAIN_COUNT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Source.RetainCount = i
		}
	}

	if val := os.Getenv("SEGVAULT_ARCHIVE_DIRECTORY"); val != "" {
		cfg.Archive.Directory = val
	}
	if val := os.Getenv("SEGVAULT_ARCHIVE_MAX_USED_PERCENT"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Archive.MaxUsedPercent = f
		}
	}

	if val := os.Getenv("SEGVAULT_GUARD_LOCK_FILE"); val != "" {
		cfg.Guard.LockFile = val
	}
	if val := os.Getenv("SEGVAULT_GUARD_CONSUMER_PROCESS"); val != "" {
		cfg.Guard.ConsumerProcess = val
	}
	if val := os.Getenv("SEGVAULT_GUARD_COPY_TOOL_PATH"); val != "" {
		cfg.Guard.CopyTool.Path = val
	}
	if val := os.Getenv("SEGVAULT_GUARD_COPY_TOOL_ARGS"); val != "" {
		cfg.Guard.CopyTool.Args = strings.Fields(val)
	}

	if val := os.Getenv("SEGVAULT_JOURNAL_DISABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Disabled = b
		}
	}
	if val := os.Getenv("SEGVAULT_JOURNAL_PATH"); val != "" {
		cfg.Journal.Path = val
	}

	if val := os.Getenv("SEGVAULT_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("SEGVAULT_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("SEGVAULT_TELEMETRY_METRICS_TEXTFILE_PATH"); val != "" {
		cfg.Telemetry.Metrics.TextfilePath = val
	}
	if val := os.Getenv("SEGVAULT_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
}
