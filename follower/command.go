package follower

import "github.com/golang/geo/r3"

// Command is a robot-relative chassis velocity command. Linear.X is forward
// meters per second, Linear.Y is leftward meters per second, and Angular.Z
// is counterclockwise radians per second. The remaining vector components
// are always zero for a planar chassis.
type Command struct {
	Linear  r3.Vector
	Angular r3.Vector
}
