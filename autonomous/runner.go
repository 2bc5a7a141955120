package autonomous

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"

	"github.com/scurvybots/swerveauto/trajectory"
)

// PoseSource supplies the robot's current field-relative pose, typically
// backed by the odometry layer.
type PoseSource interface {
	Pose() trajectory.Pose
}

// Runner is the fixed-period scheduler that drives a Runnable: one tick per
// control period until the routine reaches a terminal state or the context
// is cancelled. Cancellation interrupts the routine at the next tick
// boundary, never mid-computation.
type Runner struct {
	period time.Duration
	clock  clock.Clock
	poses  PoseSource
	logger golog.Logger
}

// NewRunner returns a runner ticking at the given period. A nil clock uses
// the wall clock.
func NewRunner(period time.Duration, clk clock.Clock, poses PoseSource, logger golog.Logger) *Runner {
	if clk == nil {
		clk = clock.New()
	}
	return &Runner{
		period: period,
		clock:  clk,
		poses:  poses,
		logger: logger,
	}
}

// Run starts the routine and ticks it to a terminal state. It returns the
// context error if the run was cancelled, or the first tick error.
func (r *Runner) Run(ctx context.Context, routine Runnable) error {
	if err := routine.Start(ctx, r.clock.Now()); err != nil {
		return err
	}
	ticker := r.clock.Ticker(r.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			routine.Interrupt()
			r.logger.Infow("run cancelled", "routine", routine.Name())
			return ctx.Err()
		case <-ticker.C:
		}

		if err := routine.Tick(ctx, r.poses.Pose(), r.clock.Now()); err != nil {
			return err
		}
		if routine.Done() {
			r.logger.Infow("run complete", "routine", routine.Name())
			return nil
		}
	}
}
