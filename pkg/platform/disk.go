package platform

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/segvault/segvault/pkg/archive"
)

// StatfsProber probes filesystem capacity with statfs(2).
type StatfsProber struct{}

// Usage returns the occupancy of the volume containing path. UsedPercent is
// computed the way df(1) does: used blocks over used-plus-available, which
// accounts for space reserved for root.
func (StatfsProber) Usage(path string) (archive.Usage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return archive.Usage{}, fmt.Errorf("statfs %q: %w", path, err)
	}

	bsize := uint64(st.Bsize)
	total := st.Blocks * bsize
	avail := st.Bavail * bsize
	used := (st.Blocks - st.Bfree) * bsize

	var pct float64
	if used+avail > 0 {
		pct = float64(used) / float64(used+avail) * 100
	}

	return archive.Usage{
		TotalBytes:  total,
		AvailBytes:  avail,
		UsedPercent: pct,
	}, nil
}

var _ archive.CapacityProber = StatfsProber{}
