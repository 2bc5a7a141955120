// Package chassis defines the command surface of the drive base that the
// autonomous core talks to. The real implementation lives in the actuator
// layer; a kinematic fake for replay tooling and tests lives in
// chassis/fake.
package chassis

import (
	"context"

	"github.com/golang/geo/r3"
)

// Chassis applies robot-relative velocity commands to the drive base. Calls
// are made from the control loop once per tick and must not block.
type Chassis interface {
	// SetVelocity commands a robot-relative velocity: Linear.X forward m/s,
	// Linear.Y leftward m/s, Angular.Z counterclockwise rad/s.
	SetVelocity(ctx context.Context, linear, angular r3.Vector) error

	// Stop zeroes all motion.
	Stop(ctx context.Context) error
}
