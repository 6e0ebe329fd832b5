package platform

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/segvault/segvault/pkg/archive"
)

// FlockLock is a file-based singleton lock using a non-blocking flock(2).
// The kernel releases the lock if the holder dies, so a crashed run never
// leaves the lock stuck. The holder's PID is written into the lock file for
// diagnostics only; the flock is authoritative.
type FlockLock struct {
	path string
	file *os.File
}

// NewFlockLock creates a lock on the given file path. The lock is not
// acquired until Acquire is called.
func NewFlockLock(path string) *FlockLock {
	return &FlockLock{path: path}
}

// Acquire takes the lock, failing immediately if another process holds it.
func (l *FlockLock) Acquire() error {
	if l.file != nil {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("opening lock file %q: %w", l.path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return fmt.Errorf("lock %q held by another instance (pid %d)", l.path, l.holderPID())
		}
		return fmt.Errorf("acquiring lock %q: %w", l.path, err)
	}

	l.file = f

	// PID annotation is best effort.
	_ = f.Truncate(0)
	_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)

	return nil
}

// Release drops the lock. Safe to call when the lock was never acquired.
func (l *FlockLock) Release() error {
	if l.file == nil {
		return nil
	}

	err := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("releasing lock %q: %w", l.path, err)
	}
	return closeErr
}

// holderPID reads the PID recorded in the lock file, 0 if unreadable. The
// value may be stale; it is used for error messages only.
func (l *FlockLock) holderPID() int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

var _ archive.RunLock = (*FlockLock)(nil)
