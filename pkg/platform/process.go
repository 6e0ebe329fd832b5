package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/procfs"

	"github.com/segvault/segvault/pkg/archive"
)

// ProcScanner detects running processes by walking /proc. The calling
// process itself is excluded from matches.
type ProcScanner struct {
	fs procfs.FS
}

// NewProcScanner creates a scanner over the default /proc mount point.
func NewProcScanner() (*ProcScanner, error) {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return nil, fmt.Errorf("opening procfs: %w", err)
	}
	return &ProcScanner{fs: fs}, nil
}

// Running reports whether a process whose command name matches name exists.
// It matches both the kernel comm value (truncated to 15 characters) and the
// basename of the first cmdline argument.
func (s *ProcScanner) Running(name string) (bool, error) {
	procs, err := s.fs.AllProcs()
	if err != nil {
		return false, fmt.Errorf("listing processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range procs {
		if p.PID == self {
			continue
		}

		// Processes may exit between listing and inspection; skip those.
		comm, err := p.Comm()
		if err == nil && matchesComm(comm, name) {
			return true, nil
		}

		cmdline, err := p.CmdLine()
		if err != nil || len(cmdline) == 0 {
			continue
		}
		if filepath.Base(cmdline[0]) == name {
			return true, nil
		}
	}
	return false, nil
}

// matchesComm compares a /proc comm value against a process name. comm is
// truncated to 15 characters by the kernel, so a prefix match is accepted
// for longer names.
func matchesComm(comm, name string) bool {
	if comm == name {
		return true
	}
	return len(name) > 15 && len(comm) == 15 && strings.HasPrefix(name, comm)
}

var _ archive.ProcessInspector = (*ProcScanner)(nil)
