// Package trajectory loads and samples the pre-generated, time-parameterized
// swerve paths produced by the offline planning tool.
package trajectory

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/scurvybots/swerveauto/utils"
)

// Pose is a field-relative robot pose. X and Y are meters; Theta is the
// heading in radians, counterclockwise positive, wrapped to (-π, π].
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// Velocity is a field-relative chassis velocity. VX and VY are meters per
// second; Omega is radians per second, counterclockwise positive.
type Velocity struct {
	VX    float64
	VY    float64
	Omega float64
}

// Sample is one timestamped state along a trajectory. Timestamp is seconds
// from the start of the trajectory.
type Sample struct {
	Timestamp float64
	Pose      Pose
	Velocity  Velocity
}

// Trajectory is an immutable, time-ordered sequence of samples. One
// Trajectory may be shared read-only between any number of followers.
type Trajectory struct {
	name    string
	samples []Sample
}

// New validates samples and builds a Trajectory. Samples must be non-empty,
// start at t=0 and have strictly increasing timestamps; anything else is a
// planning-tool export problem and fails with ErrMalformedTrajectory.
func New(name string, samples []Sample) (*Trajectory, error) {
	if len(samples) == 0 {
		return nil, errors.Wrapf(ErrMalformedTrajectory, "trajectory %q has no samples", name)
	}
	if samples[0].Timestamp != 0 {
		return nil, errors.Wrapf(ErrMalformedTrajectory,
			"trajectory %q starts at t=%v, want t=0", name, samples[0].Timestamp)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Timestamp <= samples[i-1].Timestamp {
			return nil, errors.Wrapf(ErrMalformedTrajectory,
				"trajectory %q timestamps not strictly increasing at sample %d", name, i)
		}
	}
	owned := make([]Sample, len(samples))
	copy(owned, samples)
	return &Trajectory{name: name, samples: owned}, nil
}

// Name returns the name the trajectory was loaded under.
func (t *Trajectory) Name() string {
	return t.name
}

// Len returns the number of samples.
func (t *Trajectory) Len() int {
	return len(t.samples)
}

// Duration returns the total time of the trajectory in seconds.
func (t *Trajectory) Duration() float64 {
	return t.samples[len(t.samples)-1].Timestamp
}

// InitialPose returns the pose of the first sample. Odometry is typically
// reset to this pose when a routine starts.
func (t *Trajectory) InitialPose() Pose {
	return t.samples[0].Pose
}

// FinalPose returns the pose of the last sample.
func (t *Trajectory) FinalPose() Pose {
	return t.samples[len(t.samples)-1].Pose
}

// SampleAt returns the target pose and velocity at elapsed seconds. Times at
// or below zero return the first sample unmodified; times at or beyond the
// duration return the last. Interior times linearly interpolate between the
// two bracketing samples, taking the shortest arc for heading so tracking
// never unwinds the long way around the circle.
func (t *Trajectory) SampleAt(elapsed float64) (Pose, Velocity) {
	first := t.samples[0]
	if elapsed <= 0 {
		return first.Pose, first.Velocity
	}
	last := t.samples[len(t.samples)-1]
	if elapsed >= last.Timestamp {
		return last.Pose, last.Velocity
	}

	// Index of the first sample strictly after elapsed. elapsed is interior
	// here, so 0 < hi < len(samples).
	hi := sort.Search(len(t.samples), func(i int) bool {
		return t.samples[i].Timestamp > elapsed
	})
	a := t.samples[hi-1]
	b := t.samples[hi]
	frac := (elapsed - a.Timestamp) / (b.Timestamp - a.Timestamp)

	pose := Pose{
		X:     utils.Lerp(a.Pose.X, b.Pose.X, frac),
		Y:     utils.Lerp(a.Pose.Y, b.Pose.Y, frac),
		Theta: utils.LerpAngle(a.Pose.Theta, b.Pose.Theta, frac),
	}
	vel := Velocity{
		VX:    utils.Lerp(a.Velocity.VX, b.Velocity.VX, frac),
		VY:    utils.Lerp(a.Velocity.VY, b.Velocity.VY, frac),
		Omega: utils.Lerp(a.Velocity.Omega, b.Velocity.Omega, frac),
	}
	return pose, vel
}
