package archive

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/segvault/segvault/pkg/config"
)

// Engine migrates archivable segment files one at a time, oldest first.
// Each file goes through capacity re-check, copy, and link swap before the
// next file starts; the first failure aborts the whole remaining batch.
// Files migrated before the abort stay migrated: an archived-copy+symlink
// pair is self-consistent, so there is no rollback.
type Engine struct {
	cfg      *config.Config
	copier   Copier
	prober   CapacityProber
	recorder Recorder
	logger   *slog.Logger
}

// Result summarizes a completed (or aborted) migration batch.
type Result struct {
	// Migrated is the number of segments fully migrated.
	Migrated int

	// Bytes is the total size of the archived copies.
	Bytes int64
}

// NewEngine creates an Engine. recorder may be nil when journaling is
// disabled.
func NewEngine(cfg *config.Config, copier Copier, prober CapacityProber, recorder Recorder) *Engine {
	return &Engine{
		cfg:      cfg,
		copier:   copier,
		prober:   prober,
		recorder: recorder,
		logger:   slog.Default().With("component", "archive.engine"),
	}
}

// Migrate processes files in order. It returns the partial Result alongside
// the abort error when the batch stops early, so callers can report how much
// work completed.
func (e *Engine) Migrate(ctx context.Context, files []string) (Result, error) {
	var res Result

	archiveDir, err := filepath.Abs(e.cfg.Archive.Directory)
	if err != nil {
		return res, fmt.Errorf("resolving archive directory: %w", err)
	}

	for _, src := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := e.migrateOne(ctx, src, archiveDir, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}

// migrateOne moves a single segment to the archive and swaps in the link.
func (e *Engine) migrateOne(ctx context.Context, src, archiveDir string, res *Result) error {
	name := filepath.Base(src)
	dest := filepath.Join(archiveDir, name)

	usage, over, err := checkCapacity(e.prober, archiveDir, e.cfg.Archive.MaxUsedPercent)
	if err != nil {
		return fmt.Errorf("re-checking archive capacity: %w", err)
	}
	if over {
		return newMigrateAbort(ReasonInsufficientSpaceMidRun, src,
			overThresholdError(usage, e.cfg.Archive.MaxUsedPercent))
	}

	// A leftover destination file means a prior run was interrupted between
	// copy and link swap. It cannot be trusted and the copy step overwrites it.
	if _, err := os.Lstat(dest); err == nil {
		e.logger.Warn("stale archive copy found, overwriting", "segment", name, "destination", dest)
	}

	if err := e.copier.Copy(ctx, src, archiveDir); err != nil {
		return newMigrateAbort(ReasonCopyFailed, src, err)
	}

	destInfo, err := os.Stat(dest)
	if err != nil {
		return newMigrateAbort(ReasonDestinationMissing, src,
			fmt.Errorf("copy reported success but %q is absent: %w", dest, err))
	}

	if err := e.swapLink(src, dest); err != nil {
		return err
	}

	res.Migrated++
	res.Bytes += destInfo.Size()

	e.logger.Info("segment archived",
		"segment", name,
		"destination", dest,
		"bytes", destInfo.Size(),
	)

	if e.recorder != nil {
		m := Migration{
			Name:        name,
			Source:      src,
			Destination: dest,
			Bytes:       destInfo.Size(),
			CompletedAt: time.Now().UTC(),
		}
		if err := e.recorder.RecordMigration(ctx, m); err != nil {
			e.logger.Warn("failed to record migration in journal", "segment", name, "error", err)
		}
	}
	return nil
}

// swapLink replaces the original segment with a symlink to its archived
// copy and verifies the result. Any failure here is fatal: the original may
// already be gone, and continuing could strand data.
func (e *Engine) swapLink(src, dest string) error {
	if err := os.Remove(src); err != nil {
		return newMigrateAbort(ReasonSymlinkFailed, src,
			fmt.Errorf("removing original: %w", err))
	}
	if err := os.Symlink(dest, src); err != nil {
		return newMigrateAbort(ReasonSymlinkFailed, src,
			fmt.Errorf("creating symlink to %q: %w", dest, err))
	}

	info, err := os.Lstat(src)
	if err != nil {
		return newMigrateAbort(ReasonSymlinkFailed, src,
			fmt.Errorf("verifying symlink: %w", err))
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return newMigrateAbort(ReasonSymlinkFailed, src,
			fmt.Errorf("path is not a symlink after swap"))
	}
	return nil
}
