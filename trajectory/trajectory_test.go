package trajectory

import (
	"errors"
	"math"
	"testing"

	"go.viam.com/test"
)

func threeSampleTraj(t *testing.T) *Trajectory {
	t.Helper()
	traj, err := New("test", []Sample{
		{Timestamp: 0, Pose: Pose{X: 0}, Velocity: Velocity{VX: 2}},
		{Timestamp: 1, Pose: Pose{X: 2}, Velocity: Velocity{VX: 2}},
		{Timestamp: 2, Pose: Pose{X: 2}},
	})
	test.That(t, err, test.ShouldBeNil)
	return traj
}

func TestNewValidation(t *testing.T) {
	_, err := New("empty", nil)
	test.That(t, errors.Is(err, ErrMalformedTrajectory), test.ShouldBeTrue)

	_, err = New("late-start", []Sample{{Timestamp: 0.5}})
	test.That(t, errors.Is(err, ErrMalformedTrajectory), test.ShouldBeTrue)

	_, err = New("backwards", []Sample{{Timestamp: 0}, {Timestamp: 1}, {Timestamp: 1}})
	test.That(t, errors.Is(err, ErrMalformedTrajectory), test.ShouldBeTrue)

	traj, err := New("single", []Sample{{Timestamp: 0, Pose: Pose{X: 3}}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Duration(), test.ShouldEqual, 0.0)
	test.That(t, traj.Len(), test.ShouldEqual, 1)
}

func TestNewCopiesSamples(t *testing.T) {
	samples := []Sample{{Timestamp: 0, Pose: Pose{X: 1}}, {Timestamp: 1, Pose: Pose{X: 2}}}
	traj, err := New("copy", samples)
	test.That(t, err, test.ShouldBeNil)
	samples[0].Pose.X = 99
	pose, _ := traj.SampleAt(0)
	test.That(t, pose.X, test.ShouldEqual, 1.0)
}

func TestSampleAtClampsAndInterpolates(t *testing.T) {
	traj := threeSampleTraj(t)
	test.That(t, traj.Duration(), test.ShouldEqual, 2.0)

	pose, _ := traj.SampleAt(0.5)
	test.That(t, pose.X, test.ShouldEqual, 1.0)

	pose, _ = traj.SampleAt(1.5)
	test.That(t, pose.X, test.ShouldEqual, 2.0)

	pose, vel := traj.SampleAt(3)
	test.That(t, pose.X, test.ShouldEqual, 2.0)
	test.That(t, vel.VX, test.ShouldEqual, 0.0)

	pose, vel = traj.SampleAt(-1)
	test.That(t, pose.X, test.ShouldEqual, 0.0)
	test.That(t, vel.VX, test.ShouldEqual, 2.0)

	// Velocity interpolates too: halfway through the deceleration segment.
	_, vel = traj.SampleAt(1.5)
	test.That(t, vel.VX, test.ShouldEqual, 1.0)
}

func TestSampleAtStaysWithinBrackets(t *testing.T) {
	traj, err := New("bounds", []Sample{
		{Timestamp: 0, Pose: Pose{X: 0, Y: 5}, Velocity: Velocity{VX: 1, VY: -1}},
		{Timestamp: 0.7, Pose: Pose{X: 3, Y: 2}, Velocity: Velocity{VX: 2, VY: 0.5}},
		{Timestamp: 1.9, Pose: Pose{X: 1, Y: 4}, Velocity: Velocity{VX: 0, VY: 0}},
	})
	test.That(t, err, test.ShouldBeNil)
	checkBetween := func(v, lo, hi float64) {
		t.Helper()
		test.That(t, v, test.ShouldBeGreaterThanOrEqualTo, lo)
		test.That(t, v, test.ShouldBeLessThanOrEqualTo, hi)
	}
	for elapsed := 0.0; elapsed <= traj.Duration(); elapsed += 0.01 {
		pose, vel := traj.SampleAt(elapsed)
		checkBetween(pose.X, 0.0, 3.0)
		checkBetween(pose.Y, 2.0, 5.0)
		checkBetween(vel.VX, 0.0, 2.0)
		checkBetween(vel.VY, -1.0, 0.5)
	}
}

func TestSampleAtHeadingWrap(t *testing.T) {
	// Headings straddle the ±π boundary: the interpolation must cross it,
	// not unwind through zero.
	traj, err := New("wrap", []Sample{
		{Timestamp: 0, Pose: Pose{Theta: 3.0}},
		{Timestamp: 1, Pose: Pose{Theta: -3.0}},
	})
	test.That(t, err, test.ShouldBeNil)

	pose, _ := traj.SampleAt(0.5)
	test.That(t, pose.Theta, test.ShouldAlmostEqual, math.Pi, 1e-9)

	prev, _ := traj.SampleAt(0)
	for elapsed := 0.01; elapsed <= 1.0; elapsed += 0.01 {
		pose, _ := traj.SampleAt(elapsed)
		delta := math.Abs(pose.Theta - prev.Theta)
		if delta > math.Pi {
			delta = 2*math.Pi - delta
		}
		test.That(t, delta, test.ShouldBeLessThan, math.Pi)
		prev = pose
	}
}

func TestInitialAndFinalPose(t *testing.T) {
	traj, err := New("poses", []Sample{
		{Timestamp: 0, Pose: Pose{X: 1, Y: 2, Theta: 0.5}},
		{Timestamp: 1, Pose: Pose{X: 3, Y: 4, Theta: -0.5}},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.InitialPose(), test.ShouldResemble, Pose{X: 1, Y: 2, Theta: 0.5})
	test.That(t, traj.FinalPose(), test.ShouldResemble, Pose{X: 3, Y: 4, Theta: -0.5})
}
