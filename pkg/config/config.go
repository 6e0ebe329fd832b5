package config

// Config is the root configuration structure for segvault. It is built once
// at startup and treated as immutable afterwards.
type Config struct {
	// Source describes the primary volume's segment directory.
	Source SourceConfig `yaml:"source"`

	// Archive describes the destination volume for cold segments.
	Archive ArchiveConfig `yaml:"archive"`

	// Guard configures the precondition checks that gate a run.
	Guard GuardConfig `yaml:"guard"`

	// Journal configures the sqlite migration journal.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SourceConfig describes the live working set on the primary volume.
type SourceConfig struct {
	// Directory is the flat directory containing the segment files.
	Directory string `yaml:"directory"`

	// Pattern is the glob matching segment file names, e.g. "blk*.dat".
	// Lexicographic order of matching names must correspond to segment
	// sequence order.
	// Default: "blk*.dat"
	Pattern string `yaml:"pattern"`

	// RetainCount is the minimum number of newest segments kept as real
	// files on the primary volume.
	// Default: 2000
	RetainCount int `yaml:"retain_count"`
}

// ArchiveConfig describes the destination volume for archived segments.
type ArchiveConfig struct {
	// Directory is the archive root. It must already exist with the right
	// ownership; segvault never creates it.
	Directory string `yaml:"directory"`

	// MaxUsedPercent is the highest acceptable used-space percentage of the
	// archive volume. Usage equal to the threshold still allows archiving;
	// above it refuses.
	// Default: 90
	MaxUsedPercent float64 `yaml:"max_used_percent"`
}

// GuardConfig configures the precondition checks.
type GuardConfig struct {
	// LockFile is the path of the flock-based run lock.
	// Default: "/tmp/segvault.lock"
	LockFile string `yaml:"lock_file"`

	// ConsumerProcess is the name of the consumer application's process.
	// A migration pass refuses to start while it is running.
	ConsumerProcess string `yaml:"consumer_process"`

	// CopyTool is the external tool used for the copy step.
	CopyTool CopyToolConfig `yaml:"copy_tool"`
}

// CopyToolConfig describes the external copy tool invocation.
type CopyToolConfig struct {
	// Path is the tool binary, either absolute or looked up on PATH.
	// Default: "/bin/cp"
	Path string `yaml:"path"`

	// Args are fixed leading arguments; the source file and destination
	// directory are appended per invocation.
	// Default: ["-p"]
	Args []string `yaml:"args"`
}

// JournalConfig configures the migration journal.
type JournalConfig struct {
	// Disabled turns the journal off entirely.
	Disabled bool `yaml:"disabled"`

	// Path is the sqlite database file.
	// Default: <archive.directory>/segvault.db
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures the structured logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the prometheus textfile export.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format ("text", "json").
	// Default: "text"
	Format string `yaml:"format"`
}

// MetricsConfig configures prometheus metrics. segvault is a single-shot
// tool, so metrics are written as a textfile for the node_exporter textfile
// collector rather than served over HTTP.
type MetricsConfig struct {
	// TextfilePath is the .prom file written at the end of a run. Empty
	// disables the export.
	TextfilePath string `yaml:"textfile_path"`

	// Namespace is the metric name prefix.
	// Default: "segvault"
	Namespace string `yaml:"namespace"`
}
