package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/segvault/segvault/pkg/config"
)

// fakeLock implements RunLock in memory.
type fakeLock struct {
	held     bool
	busy     bool
	acquires int
	releases int
}

func (l *fakeLock) Acquire() error {
	l.acquires++
	if l.busy {
		return errors.New("lock held by another instance")
	}
	l.held = true
	return nil
}

func (l *fakeLock) Release() error {
	l.releases++
	l.held = false
	return nil
}

// fakeInspector implements ProcessInspector with a fixed answer.
type fakeInspector struct {
	running bool
	err     error
	scans   int
}

func (i *fakeInspector) Running(name string) (bool, error) {
	i.scans++
	return i.running, i.err
}

// fakeProber implements CapacityProber returning scripted usage values. If
// series is non-empty, successive calls consume it; otherwise percent is
// returned every time.
type fakeProber struct {
	percent float64
	series  []float64
	err     error
	probes  int
}

func (p *fakeProber) Usage(path string) (Usage, error) {
	p.probes++
	if p.err != nil {
		return Usage{}, p.err
	}
	pct := p.percent
	if len(p.series) > 0 {
		pct = p.series[0]
		if len(p.series) > 1 {
			p.series = p.series[1:]
		}
	}
	return Usage{UsedPercent: pct}, nil
}

// fakeCopier implements Copier against the real filesystem. failAfter
// aborts the nth copy (0-based) with an error; lieAfter makes the nth copy
// report success without producing a file.
type fakeCopier struct {
	failAfter   int
	lieAfter    int
	unavailable error
	copies      int
}

func newFakeCopier() *fakeCopier {
	return &fakeCopier{failAfter: -1, lieAfter: -1}
}

func (c *fakeCopier) Available() error {
	return c.unavailable
}

func (c *fakeCopier) Copy(ctx context.Context, src, destDir string) error {
	n := c.copies
	c.copies++

	if n == c.failAfter {
		return fmt.Errorf("simulated copy failure for %s", src)
	}
	if n == c.lieAfter {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(destDir, filepath.Base(src)))
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// recordingRecorder captures migration records.
type recordingRecorder struct {
	records []Migration
	err     error
}

func (r *recordingRecorder) RecordMigration(ctx context.Context, m Migration) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, m)
	return nil
}

// testConfig returns a config pointing at fresh source and archive
// directories.
func testConfig(sourceDir, archiveDir string) *config.Config {
	return &config.Config{
		Source: config.SourceConfig{
			Directory:   sourceDir,
			Pattern:     "blk*.dat",
			RetainCount: 2,
		},
		Archive: config.ArchiveConfig{
			Directory:      archiveDir,
			MaxUsedPercent: 90,
		},
		Guard: config.GuardConfig{
			LockFile:        filepath.Join(sourceDir, "segvault.lock"),
			ConsumerProcess: "segmentd",
			CopyTool:        config.CopyToolConfig{Path: "/bin/cp", Args: []string{"-p"}},
		},
		Journal: config.JournalConfig{Disabled: true},
	}
}
