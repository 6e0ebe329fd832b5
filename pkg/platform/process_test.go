package platform

import (
	"os/exec"
	"runtime"
	"testing"
	"time"
)

func newTestScanner(t *testing.T) *ProcScanner {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("requires /proc")
	}
	scanner, err := NewProcScanner()
	if err != nil {
		t.Fatalf("NewProcScanner failed: %v", err)
	}
	return scanner
}

func TestProcScanner_NotRunning(t *testing.T) {
	scanner := newTestScanner(t)

	running, err := scanner.Running("segvault-no-such-process")
	if err != nil {
		t.Fatalf("Running failed: %v", err)
	}
	if running {
		t.Error("nonexistent process reported as running")
	}
}

func TestProcScanner_DetectsChildProcess(t *testing.T) {
	scanner := newTestScanner(t)

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("starting sleep: %v", err)
	}
	defer func() {
		cmd.Process.Kill()
		cmd.Wait()
	}()

	// Give the child a moment to exec.
	deadline := time.Now().Add(2 * time.Second)
	for {
		running, err := scanner.Running("sleep")
		if err != nil {
			t.Fatalf("Running failed: %v", err)
		}
		if running {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("child sleep process not detected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMatchesComm(t *testing.T) {
	tests := []struct {
		comm string
		name string
		want bool
	}{
		{comm: "segmentd", name: "segmentd", want: true},
		{comm: "segmentd", name: "other", want: false},
		// comm is truncated to 15 chars by the kernel.
		{comm: "very-long-proce", name: "very-long-process-name", want: true},
		{comm: "very-long-proce", name: "very-long-proce", want: true},
		{comm: "short", name: "very-long-process-name", want: false},
	}

	for _, tt := range tests {
		if got := matchesComm(tt.comm, tt.name); got != tt.want {
			t.Errorf("matchesComm(%q, %q) = %v, expected %v", tt.comm, tt.name, got, tt.want)
		}
	}
}
