package audit

import "errors"

var (
	// ErrEventValidation indicates event validation failed.
	ErrEventValidation = errors.New("audit.event_validation_failed")

	// ErrStorageFailure wraps failures of the storage backend.
	ErrStorageFailure = errors.New("audit.storage_failure")

	// ErrChecksumMismatch is returned by Verify when an event was altered.
	ErrChecksumMismatch = errors.New("audit.checksum_mismatch")
)
