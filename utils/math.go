// Package utils contains small math helpers shared across the module.
package utils

import "math"

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// WrapAngle normalizes an angle in radians to (-π, π].
func WrapAngle(theta float64) float64 {
	wrapped := math.Mod(theta, 2*math.Pi)
	if wrapped > math.Pi {
		wrapped -= 2 * math.Pi
	} else if wrapped <= -math.Pi {
		wrapped += 2 * math.Pi
	}
	return wrapped
}

// AngleDiff returns the shortest signed angular distance from one angle to
// another, in radians, always in (-π, π]. Crossing the ±π boundary never
// takes the long way around the circle.
func AngleDiff(from, to float64) float64 {
	return WrapAngle(to - from)
}

// Lerp linearly interpolates between a and b. frac is clamped to [0, 1], so
// the result never leaves the interval between a and b.
func Lerp(a, b, frac float64) float64 {
	if frac <= 0 {
		return a
	}
	if frac >= 1 {
		return b
	}
	return a + (b-a)*frac
}

// LerpAngle interpolates between two angles along the shortest arc.
func LerpAngle(a, b, frac float64) float64 {
	if frac <= 0 {
		return WrapAngle(a)
	}
	if frac >= 1 {
		return WrapAngle(b)
	}
	return WrapAngle(a + AngleDiff(a, b)*frac)
}
