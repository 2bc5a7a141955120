package trajectory

import "errors"

var (
	// ErrTrajectoryNotFound is returned when no trajectory file exists for a
	// requested name.
	ErrTrajectoryNotFound = errors.New("trajectory not found")

	// ErrMalformedTrajectory is returned when trajectory data parses but
	// violates the sample invariants (empty, nonzero start time, or
	// non-increasing timestamps).
	ErrMalformedTrajectory = errors.New("malformed trajectory")
)
