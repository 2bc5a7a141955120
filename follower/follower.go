// Package follower implements the real-time trajectory tracking loop: each
// tick it samples the target state for the elapsed time and adds a
// proportional correction on the tracking error to the trajectory's
// feedforward velocity. The control law is deliberately proportional-only so
// a follower carries no accumulator state between ticks and behaves
// identically across halts and restarts.
package follower

import (
	"math"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/scurvybots/swerveauto/trajectory"
	"github.com/scurvybots/swerveauto/utils"
)

// State is the lifecycle state of a Follower.
type State int

const (
	// StateIdle means the follower was created but not started.
	StateIdle State = iota
	// StateRunning means the follower is actively tracking its trajectory.
	StateRunning
	// StateFinished means the trajectory ran to its full duration.
	StateFinished
	// StateInterrupted means the follower was cancelled before finishing.
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	case StateInterrupted:
		return "interrupted"
	default:
		return "unknown"
	}
}

// Follower tracks a single trajectory. A follower is single-use: it is
// created idle, runs once, and ends Finished or Interrupted. It is driven by
// an external fixed-period scheduler and is not safe for concurrent use.
type Follower struct {
	traj   *trajectory.Trajectory
	gains  Gains
	logger golog.Logger

	state     State
	startTime time.Time
}

// New returns an idle follower over the given trajectory.
func New(traj *trajectory.Trajectory, gains Gains, logger golog.Logger) (*Follower, error) {
	if err := gains.Validate("gains"); err != nil {
		return nil, err
	}
	return &Follower{
		traj:   traj,
		gains:  gains,
		logger: logger,
		state:  StateIdle,
	}, nil
}

// Start begins tracking at the given time.
func (f *Follower) Start(now time.Time) error {
	switch f.state {
	case StateRunning:
		return errors.Wrapf(ErrAlreadyRunning, "trajectory %q", f.traj.Name())
	case StateFinished, StateInterrupted:
		return errors.Wrapf(ErrInvalidState, "cannot restart %s follower for trajectory %q", f.state, f.traj.Name())
	}
	f.startTime = now
	f.state = StateRunning
	f.logger.Debugw("follower started",
		"trajectory", f.traj.Name(),
		"duration_sec", f.traj.Duration(),
	)
	return nil
}

// Tick computes the chassis command for the given pose at the given time.
// Valid only while running. On the tick where the trajectory's full duration
// is reached the follower transitions to Finished and still returns that
// final command.
func (f *Follower) Tick(current trajectory.Pose, now time.Time) (Command, error) {
	if f.state != StateRunning {
		return Command{}, errors.Wrapf(ErrInvalidState, "tick while %s", f.state)
	}

	elapsed := now.Sub(f.startTime).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	duration := f.traj.Duration()
	finished := elapsed >= duration
	if finished {
		elapsed = duration
	}

	target, feedforward := f.traj.SampleAt(elapsed)
	cmd := f.correct(current, target, feedforward)

	if finished {
		f.state = StateFinished
		f.logger.Debugw("follower finished", "trajectory", f.traj.Name())
	}
	return cmd, nil
}

// correct builds the robot-relative command: the feedforward velocity rotated
// into the robot frame, plus a proportional term per axis on the tracking
// error. The gains are tuned in robot-relative axes, so the world-frame
// position error is rotated by the negative of the current heading before
// the gains apply. Heading error is the shortest signed angular difference.
func (f *Follower) correct(current, target trajectory.Pose, feedforward trajectory.Velocity) Command {
	sin, cos := math.Sincos(-current.Theta)
	errX := target.X - current.X
	errY := target.Y - current.Y

	relErrX := cos*errX - sin*errY
	relErrY := sin*errX + cos*errY
	relFFX := cos*feedforward.VX - sin*feedforward.VY
	relFFY := sin*feedforward.VX + cos*feedforward.VY
	headingErr := utils.AngleDiff(current.Theta, target.Theta)

	return Command{
		Linear: r3.Vector{
			X: relFFX + f.gains.KpX*relErrX,
			Y: relFFY + f.gains.KpY*relErrY,
		},
		Angular: r3.Vector{
			Z: feedforward.Omega + f.gains.KpHeading*headingErr,
		},
	}
}

// Elapsed returns seconds since Start, clamped to [0, Duration].
func (f *Follower) Elapsed(now time.Time) float64 {
	if f.state == StateIdle {
		return 0
	}
	elapsed := now.Sub(f.startTime).Seconds()
	if elapsed < 0 {
		return 0
	}
	if duration := f.traj.Duration(); elapsed > duration {
		return duration
	}
	return elapsed
}

// Duration returns the total trajectory time in seconds.
func (f *Follower) Duration() float64 {
	return f.traj.Duration()
}

// Trajectory returns the trajectory being followed.
func (f *Follower) Trajectory() *trajectory.Trajectory {
	return f.traj
}

// State returns the current lifecycle state.
func (f *Follower) State() State {
	return f.state
}

// IsFinished reports whether the follower ran its trajectory to completion.
func (f *Follower) IsFinished() bool {
	return f.state == StateFinished
}

// Interrupt abandons the remaining trajectory; no further ticks are
// permitted. Interrupting a follower that already reached a terminal state
// has no effect.
func (f *Follower) Interrupt() {
	if f.state == StateFinished || f.state == StateInterrupted {
		return
	}
	f.state = StateInterrupted
	f.logger.Debugw("follower interrupted", "trajectory", f.traj.Name())
}
