// Package autonomous sequences trajectory followers into operator-selectable
// routines: single paths with lifecycle hooks, multi-path sequences with
// actions between paths, and the fixed-period runner that drives them.
package autonomous

import (
	"context"
	"time"

	"github.com/scurvybots/swerveauto/trajectory"
)

// Mode is what the operator-facing registry needs to know about a routine.
type Mode interface {
	// Name is the operator-visible name, unique within a registry.
	Name() string

	// Enabled reports whether the routine may be selected and run.
	Enabled() bool
}

// Runnable is a routine the Runner can drive tick by tick. Implementations
// are single-use and not safe for concurrent use; all calls come from the
// control-loop goroutine.
type Runnable interface {
	Mode

	// Start transitions the routine to running at the given time. All
	// trajectory loading has already happened at construction; Start never
	// performs I/O.
	Start(ctx context.Context, now time.Time) error

	// Tick advances the routine by one control period using the robot's
	// current field-relative pose.
	Tick(ctx context.Context, pose trajectory.Pose, now time.Time) error

	// Done reports whether the routine reached a terminal state.
	Done() bool

	// Interrupt abandons the routine at a tick boundary; no further ticks
	// are permitted and no pending actions run.
	Interrupt()
}

// Hooks are the extension points of a single-trajectory routine. OnStart
// runs once when the follower starts. OnTick runs every tick after the
// follower computes its command and before that command reaches the chassis,
// including the tick on which the trajectory finishes. OnEnd runs exactly
// once on the finishing tick and never after an interrupt.
type Hooks interface {
	OnStart()
	OnTick(elapsed, total float64)
	OnEnd()
}

// NopHooks is a Hooks that does nothing.
type NopHooks struct{}

// OnStart does nothing.
func (NopHooks) OnStart() {}

// OnTick does nothing.
func (NopHooks) OnTick(elapsed, total float64) {}

// OnEnd does nothing.
func (NopHooks) OnEnd() {}
