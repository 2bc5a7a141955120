package trajectory

import (
	"math"

	"github.com/scurvybots/swerveauto/utils"
)

// Mirror returns a copy of the trajectory reflected across the centerline of
// a field of the given length in meters. This is the transform used to reuse
// one planned path from the opposite alliance wall: x positions flip across
// the field, headings reflect, and x-axis velocities negate.
func (t *Trajectory) Mirror(fieldLength float64) *Trajectory {
	samples := make([]Sample, len(t.samples))
	for i, s := range t.samples {
		samples[i] = Sample{
			Timestamp: s.Timestamp,
			Pose: Pose{
				X:     fieldLength - s.Pose.X,
				Y:     s.Pose.Y,
				Theta: utils.WrapAngle(math.Pi - s.Pose.Theta),
			},
			Velocity: Velocity{
				VX:    -s.Velocity.VX,
				VY:    s.Velocity.VY,
				Omega: -s.Velocity.Omega,
			},
		}
	}
	return &Trajectory{name: t.name, samples: samples}
}
