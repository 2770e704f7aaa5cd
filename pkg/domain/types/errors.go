package types

import (
	"errors"
	"fmt"
)

// Per-entry failures. They are recoverable: the entry is skipped and the batch continues.
var (
	ErrMalformedEntry       = errors.New("malformed entry")
	ErrUnknownTypeMarker    = errors.New("unknown type marker")
	ErrPathConflict         = errors.New("path conflict")
	ErrSymlinkTargetInvalid = errors.New("invalid symlink target")
)

// Run-level failures.
var (
	// ErrIOFailure aborts the whole run.
	ErrIOFailure = errors.New("I/O failure")

	// ErrInvalidConfig is returned for unusable flag or config file values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrPartialFailure means the run completed but one or more entries failed.
	ErrPartialFailure = errors.New("completed with entry failures")
)

// IsEntryFailure reports whether err belongs to the recoverable per-entry taxonomy.
func IsEntryFailure(err error) bool {
	return errors.Is(err, ErrMalformedEntry) ||
		errors.Is(err, ErrUnknownTypeMarker) ||
		errors.Is(err, ErrPathConflict) ||
		errors.Is(err, ErrSymlinkTargetInvalid)
}

// AsIOFailure marks err as a fatal I/O failure while keeping it in the chain.
func AsIOFailure(err error) error {
	if err == nil || errors.Is(err, ErrIOFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrIOFailure, err)
}

// AsPathConflict marks err as a recoverable path conflict.
func AsPathConflict(err error) error {
	if err == nil || errors.Is(err, ErrPathConflict) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPathConflict, err)
}
