package archive

import (
	"context"
	"time"
)

// Copier duplicates a segment file into a destination directory, preserving
// file metadata. Implementations must only report success after the copy has
// fully completed; the engine deletes the original based on that report.
type Copier interface {
	// Copy copies src into destDir under the same base name.
	Copy(ctx context.Context, src, destDir string) error

	// Available reports whether the copier can run at all. A non-nil error
	// aborts the run before any file is touched.
	Available() error
}

// ProcessInspector detects whether a process matching the given name is
// currently running, excluding the calling process itself.
type ProcessInspector interface {
	Running(name string) (bool, error)
}

// Usage describes the occupancy of a filesystem volume.
type Usage struct {
	// TotalBytes is the total size of the volume.
	TotalBytes uint64

	// AvailBytes is the space available to unprivileged users.
	AvailBytes uint64

	// UsedPercent is used/(used+available)*100, matching df(1).
	UsedPercent float64
}

// CapacityProber reports the usage of the volume containing path.
type CapacityProber interface {
	Usage(path string) (Usage, error)
}

// RunLock enforces the at-most-one-migration-pass invariant across
// processes. Acquire must fail fast when another instance holds the lock.
type RunLock interface {
	Acquire() error
	Release() error
}

// Migration describes one completed segment migration.
type Migration struct {
	// Name is the segment file's base name.
	Name string

	// Source is the original path on the primary volume, now a symlink.
	Source string

	// Destination is the archived copy's absolute path.
	Destination string

	// Bytes is the archived copy's size.
	Bytes int64

	// CompletedAt is when the link swap was verified.
	CompletedAt time.Time
}

// Recorder receives a record of each completed migration. Recording is
// best-effort: the engine logs and continues if a Recorder fails, since the
// migrated file pair is already self-consistent on disk.
type Recorder interface {
	RecordMigration(ctx context.Context, m Migration) error
}
