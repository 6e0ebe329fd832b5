package archive

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestReason_Classification(t *testing.T) {
	tests := []struct {
		reason Reason
		benign bool
		exit   int
	}{
		{ReasonNone, false, ExitOK},
		{ReasonAlreadyRunning, true, ExitAlreadyRunning},
		{ReasonNothingToDo, true, ExitNothingToDo},
		{ReasonConsumerActive, false, ExitFatal},
		{ReasonInsufficientSpace, false, ExitFatal},
		{ReasonInsufficientSpaceMidRun, false, ExitFatal},
		{ReasonMissingDependency, false, ExitFatal},
		{ReasonCopyFailed, false, ExitFatal},
		{ReasonDestinationMissing, false, ExitFatal},
		{ReasonSymlinkFailed, false, ExitFatal},
	}

	for _, tt := range tests {
		t.Run(tt.reason.String(), func(t *testing.T) {
			if tt.reason.Benign() != tt.benign {
				t.Errorf("Benign() = %v, expected %v", tt.reason.Benign(), tt.benign)
			}
			if tt.reason.ExitCode() != tt.exit {
				t.Errorf("ExitCode() = %d, expected %d", tt.reason.ExitCode(), tt.exit)
			}
		})
	}
}

func TestAbortError_Message(t *testing.T) {
	err := &AbortError{
		Reason: ReasonCopyFailed,
		File:   "/data/blk0.dat",
		Err:    errors.New("exit status 1"),
	}

	msg := err.Error()
	for _, want := range []string{"copy_failed", "/data/blk0.dat", "exit status 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestReasonOf(t *testing.T) {
	abort := newMigrateAbort(ReasonSymlinkFailed, "/data/blk1.dat", nil)

	if got := ReasonOf(abort); got != ReasonSymlinkFailed {
		t.Errorf("ReasonOf(abort) = %v", got)
	}

	wrapped := fmt.Errorf("run failed: %w", abort)
	if got := ReasonOf(wrapped); got != ReasonSymlinkFailed {
		t.Errorf("ReasonOf(wrapped) = %v", got)
	}

	if got := ReasonOf(errors.New("plain")); got != ReasonNone {
		t.Errorf("ReasonOf(plain) = %v", got)
	}
	if got := ReasonOf(nil); got != ReasonNone {
		t.Errorf("ReasonOf(nil) = %v", got)
	}
}
