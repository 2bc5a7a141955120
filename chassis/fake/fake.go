// Package fake implements a kinematic chassis that integrates velocity
// commands into a field-relative pose, standing in for the real drive base
// in replay tooling and tests.
package fake

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/scurvybots/swerveauto/chassis"
	"github.com/scurvybots/swerveauto/trajectory"
	"github.com/scurvybots/swerveauto/utils"
)

// Chassis integrates commanded robot-relative velocities into a world pose
// with forward Euler, one control period per command. An optional drift
// velocity models a world-frame disturbance (carpet drag, a weak wheel) that
// the follower's correction terms have to fight.
type Chassis struct {
	logger golog.Logger
	period time.Duration

	mu      sync.Mutex
	pose    trajectory.Pose
	drift   trajectory.Velocity
	linear  r3.Vector
	angular r3.Vector
	stopped bool
}

var _ chassis.Chassis = (*Chassis)(nil)

// NewChassis returns a stationary fake chassis that advances its pose by one
// period of motion per velocity command.
func NewChassis(period time.Duration, logger golog.Logger) *Chassis {
	return &Chassis{
		logger:  logger,
		period:  period,
		stopped: true,
	}
}

// SetPose teleports the chassis, the way an odometry reset does on a real
// robot at the start of a routine.
func (c *Chassis) SetPose(pose trajectory.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pose = pose
}

// SetDrift applies a constant world-frame disturbance velocity to every
// subsequent integration step.
func (c *Chassis) SetDrift(drift trajectory.Velocity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drift = drift
}

// Pose returns the current integrated pose.
func (c *Chassis) Pose() trajectory.Pose {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pose
}

// SetVelocity records the command and integrates one period of motion.
func (c *Chassis) SetVelocity(ctx context.Context, linear, angular r3.Vector) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linear = linear
	c.angular = angular
	c.stopped = false
	c.integrate()
	return nil
}

// Stop zeroes all motion. Drift still applies: a stopped robot on a real
// field can still be pushed.
func (c *Chassis) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linear = r3.Vector{}
	c.angular = r3.Vector{}
	c.stopped = true
	return nil
}

// Stopped reports whether the last command was a stop.
func (c *Chassis) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Commanded returns the most recent velocity command.
func (c *Chassis) Commanded() (r3.Vector, r3.Vector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.linear, c.angular
}

func (c *Chassis) integrate() {
	dt := c.period.Seconds()
	sin, cos := math.Sincos(c.pose.Theta)
	worldVX := cos*c.linear.X - sin*c.linear.Y
	worldVY := sin*c.linear.X + cos*c.linear.Y

	c.pose.X += (worldVX + c.drift.VX) * dt
	c.pose.Y += (worldVY + c.drift.VY) * dt
	c.pose.Theta = utils.WrapAngle(c.pose.Theta + (c.angular.Z+c.drift.Omega)*dt)
}
