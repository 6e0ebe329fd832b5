package config

import "path/filepath"

// Default values for configuration fields.
const (
	// Source defaults
	DefaultSourcePattern = "blk*.dat"
	DefaultRetainCount   = 2000

	// Archive defaults
	DefaultMaxUsedPercent = 90.0

	// Guard defaults
	DefaultLockFile     = "/tmp/segvault.lock"
	DefaultCopyToolPath = "/bin/cp"

	// Journal defaults
	DefaultJournalFileName = "segvault.db"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "text"
	DefaultMetricsNamespace = "segvault"
)

// DefaultCopyToolArgs returns the default copy tool arguments. "-p"
// preserves mode, ownership, and timestamps.
func DefaultCopyToolArgs() []string {
	return []string{"-p"}
}

// ApplyDefaults fills in default values for any unset configuration fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Source.Pattern == "" {
		cfg.Source.Pattern = DefaultSourcePattern
	}
	if cfg.Source.RetainCount == 0 {
		cfg.Source.RetainCount = DefaultRetainCount
	}

	if cfg.Archive.MaxUsedPercent == 0 {
		cfg.Archive.MaxUsedPercent = DefaultMaxUsedPercent
	}

	if cfg.Guard.LockFile == "" {
		cfg.Guard.LockFile = DefaultLockFile
	}
	if cfg.Guard.CopyTool.Path == "" {
		cfg.Guard.CopyTool.Path = DefaultCopyToolPath
		if cfg.Guard.CopyTool.Args == nil {
			cfg.Guard.CopyTool.Args = DefaultCopyToolArgs()
		}
	}

	if cfg.Journal.Path == "" && cfg.Archive.Directory != "" {
		cfg.Journal.Path = filepath.Join(cfg.Archive.Directory, DefaultJournalFileName)
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}
