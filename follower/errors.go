package follower

import "errors"

var (
	// ErrAlreadyRunning is returned when Start is called on a follower that
	// is already running.
	ErrAlreadyRunning = errors.New("follower already running")

	// ErrInvalidState is returned when an operation is called outside the
	// lifecycle state it is valid in. This is a programming error in the
	// caller, not a runtime fault to recover from.
	ErrInvalidState = errors.New("operation invalid in current state")
)
