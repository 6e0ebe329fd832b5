package archive

import (
	"fmt"
	"log/slog"

	"github.com/segvault/segvault/pkg/config"
)

// Guard runs the precondition checks that gate a migration pass. Checks run
// in a fixed order, cheapest first, and short-circuit on the first failure:
// run-lock exclusivity, consumer idleness, archive capacity, retention
// threshold, copy-tool availability. A failed check has no side effects
// beyond the (released) run lock.
type Guard struct {
	cfg       *config.Config
	lock      RunLock
	inspector ProcessInspector
	prober    CapacityProber
	copier    Copier
	logger    *slog.Logger
}

// NewGuard creates a Guard over the given capabilities.
func NewGuard(cfg *config.Config, lock RunLock, inspector ProcessInspector, prober CapacityProber, copier Copier) *Guard {
	return &Guard{
		cfg:       cfg,
		lock:      lock,
		inspector: inspector,
		prober:    prober,
		copier:    copier,
		logger:    slog.Default().With("component", "archive.guard"),
	}
}

// Verify runs every precondition check. On success the run lock is held and
// the caller must Release it; on failure the lock is not held and the error
// is an *AbortError carrying the failed check's reason.
func (g *Guard) Verify() error {
	if err := g.lock.Acquire(); err != nil {
		return newGuardAbort(ReasonAlreadyRunning, "exclusivity", err)
	}

	if err := g.verifyLocked(); err != nil {
		if relErr := g.lock.Release(); relErr != nil {
			g.logger.Warn("failed to release run lock after aborted check", "error", relErr)
		}
		return err
	}
	return nil
}

// verifyLocked runs the checks that follow lock acquisition.
func (g *Guard) verifyLocked() error {
	consumer := g.cfg.Guard.ConsumerProcess
	running, err := g.inspector.Running(consumer)
	if err != nil {
		return fmt.Errorf("scanning for consumer process %q: %w", consumer, err)
	}
	if running {
		return newGuardAbort(ReasonConsumerActive, "consumer_idle",
			fmt.Errorf("consumer process %q is running", consumer))
	}

	usage, over, err := checkCapacity(g.prober, g.cfg.Archive.Directory, g.cfg.Archive.MaxUsedPercent)
	if err != nil {
		return fmt.Errorf("checking archive capacity: %w", err)
	}
	if over {
		return newGuardAbort(ReasonInsufficientSpace, "destination_capacity",
			overThresholdError(usage, g.cfg.Archive.MaxUsedPercent))
	}
	g.logger.Debug("archive capacity check passed",
		"used_percent", usage.UsedPercent,
		"max_used_percent", g.cfg.Archive.MaxUsedPercent,
	)

	inventory, err := ListSegments(g.cfg.Source.Directory, g.cfg.Source.Pattern)
	if err != nil {
		return fmt.Errorf("listing segments: %w", err)
	}
	if len(inventory) <= g.cfg.Source.RetainCount {
		return newGuardAbort(ReasonNothingToDo, "threshold_met",
			fmt.Errorf("%d segments present, retaining %d", len(inventory), g.cfg.Source.RetainCount))
	}

	if err := g.copier.Available(); err != nil {
		return newGuardAbort(ReasonMissingDependency, "dependency_available", err)
	}

	return nil
}

// checkCapacity probes the volume containing dir. over is true when the
// used-space percentage is above maxUsedPercent; equal to the threshold is
// acceptable. err reports probe failures only.
func checkCapacity(prober CapacityProber, dir string, maxUsedPercent float64) (usage Usage, over bool, err error) {
	usage, err = prober.Usage(dir)
	if err != nil {
		return Usage{}, false, fmt.Errorf("probing archive volume %q: %w", dir, err)
	}
	return usage, usage.UsedPercent > maxUsedPercent, nil
}

// overThresholdError describes a capacity threshold breach.
func overThresholdError(usage Usage, maxUsedPercent float64) error {
	return fmt.Errorf("archive volume at %.1f%% used, threshold %.1f%%",
		usage.UsedPercent, maxUsedPercent)
}
