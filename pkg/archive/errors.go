package archive

import (
	"errors"
	"fmt"
)

// Reason classifies why an archival run stopped before completing.
type Reason int

const (
	// ReasonNone means the run was not aborted.
	ReasonNone Reason = iota

	// ReasonAlreadyRunning means another instance holds the run lock.
	ReasonAlreadyRunning

	// ReasonNothingToDo means the segment count is within the retention
	// count and there is nothing to archive.
	ReasonNothingToDo

	// ReasonConsumerActive means the consumer process was detected running.
	ReasonConsumerActive

	// ReasonInsufficientSpace means the archive volume exceeded its
	// configured usage threshold before the run started.
	ReasonInsufficientSpace

	// ReasonInsufficientSpaceMidRun means the archive volume crossed the
	// usage threshold between files of the same batch.
	ReasonInsufficientSpaceMidRun

	// ReasonMissingDependency means the external copy tool is not available.
	ReasonMissingDependency

	// ReasonCopyFailed means the copy tool reported an error.
	ReasonCopyFailed

	// ReasonDestinationMissing means the copy tool reported success but no
	// file exists at the expected archive path.
	ReasonDestinationMissing

	// ReasonSymlinkFailed means the link swap could not be completed or
	// verified after the original file was removed.
	ReasonSymlinkFailed
)

// String returns the canonical name of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonAlreadyRunning:
		return "already_running"
	case ReasonNothingToDo:
		return "nothing_to_do"
	case ReasonConsumerActive:
		return "consumer_active"
	case ReasonInsufficientSpace:
		return "insufficient_space"
	case ReasonInsufficientSpaceMidRun:
		return "insufficient_space_mid_run"
	case ReasonMissingDependency:
		return "missing_dependency"
	case ReasonCopyFailed:
		return "copy_failed"
	case ReasonDestinationMissing:
		return "destination_missing"
	case ReasonSymlinkFailed:
		return "symlink_failed"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Benign reports whether the reason is an expected steady-state condition
// (lock contention, nothing to archive) rather than a failure that needs
// operator attention.
func (r Reason) Benign() bool {
	return r == ReasonAlreadyRunning || r == ReasonNothingToDo
}

// Process exit codes. Benign aborts get dedicated codes so schedulers can
// tell them apart from real failures without parsing log output.
const (
	ExitOK             = 0
	ExitFatal          = 1
	ExitAlreadyRunning = 2
	ExitNothingToDo    = 3
)

// ExitCode returns the process exit code for the reason.
func (r Reason) ExitCode() int {
	switch r {
	case ReasonNone:
		return ExitOK
	case ReasonAlreadyRunning:
		return ExitAlreadyRunning
	case ReasonNothingToDo:
		return ExitNothingToDo
	default:
		return ExitFatal
	}
}

// AbortError is the error returned when a precondition check fails or a
// migration step aborts the run.
type AbortError struct {
	// Reason classifies the abort.
	Reason Reason

	// Check names the precondition check that failed, if any.
	Check string

	// File is the segment file involved, if any.
	File string

	// Err is the underlying cause, if any.
	Err error
}

// Error returns the abort description with check and file context.
func (e *AbortError) Error() string {
	msg := e.Reason.String()
	if e.Check != "" {
		msg = fmt.Sprintf("%s (check %s)", msg, e.Check)
	}
	if e.File != "" {
		msg = fmt.Sprintf("%s (file %s)", msg, e.File)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *AbortError) Unwrap() error {
	return e.Err
}

// ReasonOf extracts the abort reason from err. It returns ReasonNone when
// err is nil or is not an AbortError.
func ReasonOf(err error) Reason {
	var abort *AbortError
	if errors.As(err, &abort) {
		return abort.Reason
	}
	return ReasonNone
}

// newGuardAbort builds an AbortError for a failed precondition check.
func newGuardAbort(reason Reason, check string, err error) *AbortError {
	return &AbortError{Reason: reason, Check: check, Err: err}
}

// newMigrateAbort builds an AbortError for a failed migration step.
func newMigrateAbort(reason Reason, file string, err error) *AbortError {
	return &AbortError{Reason: reason, File: file, Err: err}
}
