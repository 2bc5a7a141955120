package autonomous

import (
	"context"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/scurvybots/swerveauto/chassis"
	"github.com/scurvybots/swerveauto/follower"
	"github.com/scurvybots/swerveauto/trajectory"
)

// TimedDrive is a trajectory-less routine that waits, then drives at a fixed
// robot-relative velocity, then stops. It covers the "just leave the start
// area" case on fields where no planned path exists yet.
type TimedDrive struct {
	name    string
	wait    time.Duration
	drive   time.Duration
	linear  r3.Vector
	chassis chassis.Chassis
	logger  golog.Logger

	started bool
	done    bool
	startAt time.Time
}

var _ Runnable = (*TimedDrive)(nil)

// NewTimedDrive returns a routine that holds still for wait, drives the
// given robot-relative linear velocity for drive, then stops for good.
func NewTimedDrive(
	name string,
	wait, drive time.Duration,
	linear r3.Vector,
	c chassis.Chassis,
	logger golog.Logger,
) *TimedDrive {
	return &TimedDrive{
		name:    name,
		wait:    wait,
		drive:   drive,
		linear:  linear,
		chassis: c,
		logger:  logger,
	}
}

// Name returns the operator-visible routine name.
func (t *TimedDrive) Name() string {
	return t.name
}

// Enabled always reports true: a timed drive needs no configuration beyond
// its constructor arguments.
func (t *TimedDrive) Enabled() bool {
	return true
}

// Start begins the wait phase.
func (t *TimedDrive) Start(ctx context.Context, now time.Time) error {
	if t.started {
		return errors.Wrapf(follower.ErrAlreadyRunning, "timed drive %q", t.name)
	}
	t.started = true
	t.startAt = now
	t.logger.Infow("timed drive started", "routine", t.name, "wait", t.wait, "drive", t.drive)
	return nil
}

// Tick holds still during the wait phase, drives during the drive phase,
// then stops and reports done. The current pose is ignored: a timed drive is
// open loop.
func (t *TimedDrive) Tick(ctx context.Context, pose trajectory.Pose, now time.Time) error {
	if !t.started || t.done {
		return errors.Wrapf(follower.ErrInvalidState, "timed drive %q", t.name)
	}
	elapsed := now.Sub(t.startAt)
	switch {
	case elapsed < t.wait:
		return t.chassis.Stop(ctx)
	case elapsed < t.wait+t.drive:
		return t.chassis.SetVelocity(ctx, t.linear, r3.Vector{})
	default:
		t.done = true
		t.logger.Infow("timed drive finished", "routine", t.name)
		return t.chassis.Stop(ctx)
	}
}

// Done reports whether the drive phase completed or the routine was
// interrupted.
func (t *TimedDrive) Done() bool {
	return t.done
}

// Interrupt stops the routine; no further ticks are permitted.
func (t *TimedDrive) Interrupt() {
	if !t.started || t.done {
		return
	}
	t.done = true
	t.logger.Infow("timed drive interrupted", "routine", t.name)
}
