package autonomous

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownMode is returned when a mode name is not in the registry.
	ErrUnknownMode = errors.New("unknown autonomous mode")

	// ErrModeDisabled is returned when a disabled routine is selected or
	// started. Routines stay disabled until explicitly enabled so that a
	// half-configured routine can never run by accident.
	ErrModeDisabled = errors.New("autonomous mode is disabled")
)

// ActionError reports that a segment's action failed. The sequencer halts in
// an error-terminal state rather than continue with the chassis in an
// unknown condition.
type ActionError struct {
	Segment int
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action for segment %d failed: %s", e.Segment, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
