package follower

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/scurvybots/swerveauto/trajectory"
)

var start = time.Unix(100, 0)

func lineTraj(t *testing.T) *trajectory.Trajectory {
	t.Helper()
	traj, err := trajectory.New("line", []trajectory.Sample{
		{Timestamp: 0, Pose: trajectory.Pose{X: 0}, Velocity: trajectory.Velocity{VX: 1}},
		{Timestamp: 2, Pose: trajectory.Pose{X: 2}, Velocity: trajectory.Velocity{VX: 1}},
		{Timestamp: 4, Pose: trajectory.Pose{X: 4}},
	})
	test.That(t, err, test.ShouldBeNil)
	return traj
}

func TestNewRejectsNegativeGains(t *testing.T) {
	logger := golog.NewTestLogger(t)
	for _, gains := range []Gains{
		{KpX: -1},
		{KpY: -0.5},
		{KpHeading: -0.01},
	} {
		_, err := New(lineTraj(t), gains, logger)
		test.That(t, err, test.ShouldNotBeNil)
	}
	_, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
}

func TestStartStateMachine(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.State(), test.ShouldEqual, StateIdle)

	test.That(t, f.Start(start), test.ShouldBeNil)
	test.That(t, f.State(), test.ShouldEqual, StateRunning)

	err = f.Start(start)
	test.That(t, errors.Is(err, ErrAlreadyRunning), test.ShouldBeTrue)

	f.Interrupt()
	test.That(t, f.State(), test.ShouldEqual, StateInterrupted)
	err = f.Start(start)
	test.That(t, errors.Is(err, ErrInvalidState), test.ShouldBeTrue)

	_, err = f.Tick(trajectory.Pose{}, start)
	test.That(t, errors.Is(err, ErrInvalidState), test.ShouldBeTrue)
}

func TestTickBeforeStart(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
	_, err = f.Tick(trajectory.Pose{}, start)
	test.That(t, errors.Is(err, ErrInvalidState), test.ShouldBeTrue)
}

func TestPureFeedforwardWhenOnPath(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{KpX: 4, KpY: 4, KpHeading: 6}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	// When the current pose matches the target exactly, the proportional
	// terms contribute nothing and the command is pure feedforward.
	for _, elapsed := range []float64{0.02, 0.5, 1.0, 1.98} {
		now := start.Add(time.Duration(elapsed * float64(time.Second)))
		target, _ := lineTraj(t).SampleAt(elapsed)
		cmd, err := f.Tick(target, now)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 1.0, 1e-9)
		test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, 0, 1e-9)
		test.That(t, cmd.Angular.Z, test.ShouldAlmostEqual, 0, 1e-9)
	}
}

func TestProportionalCorrection(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{KpX: 2, KpY: 3, KpHeading: 0}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	// Robot is 0.5 m short in x and 0.25 m off in y at t=1 (target x=1),
	// heading zero so robot frame and world frame coincide.
	cmd, err := f.Tick(trajectory.Pose{X: 0.5, Y: -0.25}, start.Add(time.Second))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 1.0+2*0.5, 1e-9)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, 3*0.25, 1e-9)
}

func TestCorrectionRotatesIntoRobotFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{KpX: 1, KpY: 1}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	// Robot on the path position-wise but facing +y (heading π/2). The
	// world-frame feedforward of +1 m/s in x must come out as -1 m/s on the
	// robot's leftward axis; a world +x position error likewise maps to
	// robot -y.
	cmd, err := f.Tick(trajectory.Pose{X: 0.5, Y: 0, Theta: math.Pi / 2}, start.Add(time.Second))
	test.That(t, err, test.ShouldBeNil)
	// world error is (0.5, 0); rotated into the robot frame it is (0, -0.5).
	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 0, 1e-9)
	test.That(t, cmd.Linear.Y, test.ShouldAlmostEqual, -1.0-0.5, 1e-9)
}

func TestHeadingCorrectionShortestPath(t *testing.T) {
	traj, err := trajectory.New("spin", []trajectory.Sample{
		{Timestamp: 0, Pose: trajectory.Pose{Theta: 3.0}},
		{Timestamp: 1, Pose: trajectory.Pose{Theta: 3.0}},
	})
	test.That(t, err, test.ShouldBeNil)

	logger := golog.NewTestLogger(t)
	f, err := New(traj, Gains{KpHeading: 1}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	// Current heading -3.0, target 3.0: the short way is -0.283 rad
	// (clockwise), not +6 rad.
	cmd, err := f.Tick(trajectory.Pose{Theta: -3.0}, start.Add(500*time.Millisecond))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cmd.Angular.Z, test.ShouldAlmostEqual, -(2*math.Pi-6.0), 1e-9)
}

func TestFinishesExactlyAtDuration(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	_, err = f.Tick(trajectory.Pose{X: 3.99}, start.Add(3999*time.Millisecond))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.IsFinished(), test.ShouldBeFalse)

	// The finishing tick still returns a command.
	cmd, err := f.Tick(trajectory.Pose{X: 4}, start.Add(4*time.Second))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.IsFinished(), test.ShouldBeTrue)
	test.That(t, f.State(), test.ShouldEqual, StateFinished)
	test.That(t, cmd.Linear.X, test.ShouldAlmostEqual, 0, 1e-9)

	_, err = f.Tick(trajectory.Pose{X: 4}, start.Add(5*time.Second))
	test.That(t, errors.Is(err, ErrInvalidState), test.ShouldBeTrue)
}

func TestElapsedClamps(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Elapsed(start), test.ShouldEqual, 0.0)

	test.That(t, f.Start(start), test.ShouldBeNil)
	test.That(t, f.Elapsed(start.Add(-time.Second)), test.ShouldEqual, 0.0)
	test.That(t, f.Elapsed(start.Add(time.Second)), test.ShouldEqual, 1.0)
	test.That(t, f.Elapsed(start.Add(time.Minute)), test.ShouldEqual, 4.0)
	test.That(t, f.Duration(), test.ShouldEqual, 4.0)
}

func TestInterruptIsTerminal(t *testing.T) {
	logger := golog.NewTestLogger(t)
	f, err := New(lineTraj(t), Gains{}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Start(start), test.ShouldBeNil)

	f.Interrupt()
	test.That(t, f.State(), test.ShouldEqual, StateInterrupted)
	test.That(t, f.IsFinished(), test.ShouldBeFalse)

	// Interrupting again, or after finishing, changes nothing.
	f.Interrupt()
	test.That(t, f.State(), test.ShouldEqual, StateInterrupted)

	_, err = f.Tick(trajectory.Pose{}, start.Add(time.Second))
	test.That(t, errors.Is(err, ErrInvalidState), test.ShouldBeTrue)
}
