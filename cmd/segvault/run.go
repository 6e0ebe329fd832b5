package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/segvault/segvault/pkg/archive"
	"github.com/segvault/segvault/pkg/cli"
	"github.com/segvault/segvault/pkg/config"
	"github.com/segvault/segvault/pkg/journal"
	"github.com/segvault/segvault/pkg/platform"
	"github.com/segvault/segvault/pkg/telemetry/logging"
	"github.com/segvault/segvault/pkg/telemetry/metrics"
)

var runFlags struct {
	retain   int
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one archival pass",
	Long: `Execute one archival pass: verify all preconditions, select the oldest
segments beyond the retention count, and migrate them to the archive volume,
replacing each with a symbolic link.

Examples:
  # Archive with the default config
  segvault run

  # Archive with a custom config
  segvault run --config /etc/segvault/config.yaml

  # Keep 500 newest segments regardless of the configured retain count
  segvault run --retain 500

  # Show what would be archived without touching anything
  segvault run --dry-run`,
	RunE: runArchival,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runFlags.retain, "retain", -1, "override retain count")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "print the archivable set without migrating")
}

func runArchival(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Apply flag overrides
	if runFlags.retain >= 0 {
		cfg.Source.RetainCount = runFlags.retain
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	ctx := cli.SetupSignalHandler()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics.Namespace)
	start := time.Now()

	scanner, err := platform.NewProcScanner()
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	lock := platform.NewFlockLock(cfg.Guard.LockFile)
	prober := platform.StatfsProber{}
	copier := archive.NewExecCopier(cfg.Guard.CopyTool.Path, cfg.Guard.CopyTool.Args...)

	guard := archive.NewGuard(cfg, lock, scanner, prober, copier)
	if err := guard.Verify(); err != nil {
		reason := archive.ReasonOf(err)
		if reason.Benign() {
			slog.Info("run skipped", "reason", reason.String(), "detail", err)
		} else {
			slog.Error("precondition check failed", "error", err)
		}
		finishMetrics(collector, cfg, prober, reason, start)
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			slog.Warn("failed to release run lock", "error", err)
		}
	}()

	inventory, err := archive.ListSegments(cfg.Source.Directory, cfg.Source.Pattern)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	work := archive.SelectArchivable(inventory, cfg.Source.RetainCount)
	slog.Info("archivable segments selected",
		"total", len(inventory),
		"retain", cfg.Source.RetainCount,
		"archivable", len(work),
	)

	if runFlags.dryRun {
		for _, f := range work {
			fmt.Println(f)
		}
		return nil
	}

	recorder, jrun, cleanup := openJournal(ctx, cfg, collector)
	defer cleanup()

	engine := archive.NewEngine(cfg, copier, prober, recorder)
	res, migErr := engine.Migrate(ctx, work)

	reason := archive.ReasonOf(migErr)
	outcome := "success"
	if migErr != nil {
		outcome = reason.String()
		if reason == archive.ReasonNone {
			outcome = "error"
		}
	}
	if jrun != nil {
		if err := jrun.Finish(ctx, outcome, res.Migrated); err != nil {
			slog.Warn("failed to close journal run", "error", err)
		}
	}

	finishMetrics(collector, cfg, prober, reason, start)

	if migErr != nil {
		slog.Error("archival run aborted",
			"migrated", res.Migrated,
			"remaining", len(work)-res.Migrated,
			"error", migErr,
		)
		return migErr
	}

	slog.Info("archival run completed",
		"migrated", res.Migrated,
		"bytes", res.Bytes,
		"duration", time.Since(start),
	)
	return nil
}

// openJournal opens the migration journal and begins a run entry. The
// journal is best-effort: any failure degrades to running without one. The
// returned recorder forwards each migration to both the metrics collector
// and the journal.
func openJournal(ctx context.Context, cfg *config.Config, collector *metrics.Collector) (archive.Recorder, *journal.Run, func()) {
	rec := &runRecorder{collector: collector}
	cleanup := func() {}

	if cfg.Journal.Disabled {
		return rec, nil, cleanup
	}

	j, err := journal.Open(journal.Config{Path: cfg.Journal.Path})
	if err != nil {
		slog.Warn("journal unavailable, continuing without it", "error", err)
		return rec, nil, cleanup
	}
	cleanup = func() {
		if err := j.Close(); err != nil {
			slog.Warn("failed to close journal", "error", err)
		}
	}

	jrun, err := j.Begin(ctx)
	if err != nil {
		slog.Warn("failed to begin journal run, continuing without it", "error", err)
		return rec, nil, cleanup
	}

	rec.journal = jrun
	return rec, jrun, cleanup
}

// runRecorder fans a migration record out to the metrics collector and,
// when available, the journal.
type runRecorder struct {
	collector *metrics.Collector
	journal   *journal.Run
}

func (r *runRecorder) RecordMigration(ctx context.Context, m archive.Migration) error {
	r.collector.RecordMigrated(m.Bytes)
	if r.journal != nil {
		return r.journal.RecordMigration(ctx, m)
	}
	return nil
}

// finishMetrics stamps the run-level metrics and writes the textfile export
// if configured.
func finishMetrics(collector *metrics.Collector, cfg *config.Config, prober archive.CapacityProber, reason archive.Reason, start time.Time) {
	if reason != archive.ReasonNone {
		collector.RecordAbort(reason.String())
	}
	if usage, err := prober.Usage(cfg.Archive.Directory); err == nil {
		collector.SetArchiveUsage(usage.UsedPercent)
	}
	collector.ObserveRun(time.Since(start))

	if path := cfg.Telemetry.Metrics.TextfilePath; path != "" {
		if err := collector.WriteTextfile(path); err != nil {
			slog.Warn("failed to write metrics textfile", "path", path, "error", err)
		}
	}
}
