package roster

import "errors"

// Sentinel kinds for cleanup errors.
//
// ErrEventNotFound and ErrEventNotCompleted are precondition violations: the
// scheduler only invokes cleanup at the completion transition, so either one
// indicates a caller bug and nothing is mutated. ErrCleanupFailed wraps an
// unexpected persistence failure that aborted the cascade mid-roster.
var (
	ErrEventNotFound     = errors.New("cleanup: event not found")
	ErrEventNotCompleted = errors.New("cleanup: event not completed")
	ErrCleanupFailed     = errors.New("cleanup failed")
)
