package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
source:
  directory: "/srv/chain/blocks"
  pattern: "blk*.dat"
  retain_count: 500

archive:
  directory: "/mnt/cold/blocks"
  max_used_percent: 85

guard:
  lock_file: "/run/segvault.lock"
  consumer_process: "segmentd"
  copy_tool:
    path: "/usr/bin/cp"
    args: ["-p", "--reflink=auto"]

telemetry:
  logging:
    level: "debug"
    format: "json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Directory != "/srv/chain/blocks" {
		t.Errorf("source directory = %q", cfg.Source.Directory)
	}
	if cfg.Source.RetainCount != 500 {
		t.Errorf("retain count = %d", cfg.Source.RetainCount)
	}
	if cfg.Archive.MaxUsedPercent != 85 {
		t.Errorf("max used percent = %f", cfg.Archive.MaxUsedPercent)
	}
	if len(cfg.Guard.CopyTool.Args) != 2 {
		t.Errorf("copy tool args = %v", cfg.Guard.CopyTool.Args)
	}
	if cfg.Telemetry.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
source:
  directory: "/srv/chain/blocks"

archive:
  directory: "/mnt/cold/blocks"

guard:
  consumer_process: "segmentd"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.Pattern != DefaultSourcePattern {
		t.Errorf("pattern = %q, expected default", cfg.Source.Pattern)
	}
	if cfg.Source.RetainCount != DefaultRetainCount {
		t.Errorf("retain count = %d, expected default", cfg.Source.RetainCount)
	}
	if cfg.Archive.MaxUsedPercent != DefaultMaxUsedPercent {
		t.Errorf("max used percent = %f, expected default", cfg.Archive.MaxUsedPercent)
	}
	if cfg.Guard.CopyTool.Path != DefaultCopyToolPath {
		t.Errorf("copy tool = %q, expected default", cfg.Guard.CopyTool.Path)
	}
	if cfg.Journal.Path != filepath.Join("/mnt/cold/blocks", DefaultJournalFileName) {
		t.Errorf("journal path = %q", cfg.Journal.Path)
	}
	if cfg.Telemetry.Logging.Level != DefaultLoggingLevel {
		t.Errorf("logging level = %q, expected default", cfg.Telemetry.Logging.Level)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("metrics namespace = %q, expected default", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "source: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadConfig_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
source:
  directory: "/srv/chain/blocks"
  retain_count: -5

archive:
  directory: "/srv/chain/blocks"

guard:
  consumer_process: "segmentd"
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(verr.Errors), verr)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
source:
  directory: "/srv/chain/blocks"
  retain_count: 500

archive:
  directory: "/mnt/cold/blocks"

guard:
  consumer_process: "segmentd"
`)

	t.Setenv("SEGVAULT_SOURCE_RETAIN_COUNT", "250")
	t.Setenv("SEGVAULT_ARCHIVE_MAX_USED_PERCENT", "75.5")
	t.Setenv("SEGVAULT_GUARD_COPY_TOOL_ARGS", "-p --reflink=auto")
	t.Setenv("SEGVAULT_JOURNAL_DISABLED", "true")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Source.RetainCount != 250 {
		t.Errorf("retain count = %d, expected env override 250", cfg.Source.RetainCount)
	}
	if cfg.Archive.MaxUsedPercent != 75.5 {
		t.Errorf("max used percent = %f, expected env override", cfg.Archive.MaxUsedPercent)
	}
	if len(cfg.Guard.CopyTool.Args) != 2 || cfg.Guard.CopyTool.Args[1] != "--reflink=auto" {
		t.Errorf("copy tool args = %v", cfg.Guard.CopyTool.Args)
	}
	if !cfg.Journal.Disabled {
		t.Error("journal should be disabled via env override")
	}
}
