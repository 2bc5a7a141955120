package autonomous

import (
	"context"
	"fmt"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/scurvybots/swerveauto/chassis"
	"github.com/scurvybots/swerveauto/follower"
	"github.com/scurvybots/swerveauto/trajectory"
)

// Segment pairs one trajectory with an action to run after it completes.
type Segment struct {
	// Trajectory names the path to follow, as known to the trajectory store.
	Trajectory string

	// Action, if non-nil, runs exactly once when the trajectory finishes,
	// strictly before the next segment's follower takes its first tick.
	// Actions run synchronously on the control-loop goroutine and must not
	// block; anything that needs multiple ticks has to be modeled as its own
	// state elsewhere.
	Action func(ctx context.Context) error
}

// DuringFunc is invoked on every tick of a sequencer with the active
// segment's index and trajectory name.
type DuringFunc func(segment int, name string, elapsed, total float64)

// State is the lifecycle state of a Sequencer.
type State int

const (
	// StateIdle means the sequencer was built but not started.
	StateIdle State = iota
	// StateRunning means a segment's follower is actively ticking.
	StateRunning
	// StateCompleted means every segment finished and every action ran.
	StateCompleted
	// StateInterrupted means the run was cancelled; pending actions did not run.
	StateInterrupted
	// StateErrored means a segment's action failed and the run halted.
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateInterrupted:
		return "interrupted"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// SequencerConfig configures a multi-trajectory autonomous routine.
// Segments carry action closures, so sequences are assembled in code rather
// than parsed from a file.
type SequencerConfig struct {
	Name     string
	Enabled  bool
	Gains    follower.Gains
	Segments []Segment

	// During, if non-nil, runs every tick with the active segment.
	During DuringFunc

	// OnStart, if non-nil, runs once when segment 0 starts.
	OnStart func()
}

// Validate ensures all parts of the config are valid.
func (cfg *SequencerConfig) Validate(path string) error {
	if cfg.Name == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if len(cfg.Segments) == 0 {
		return goutils.NewConfigValidationError(path, errors.New("need at least one segment"))
	}
	for i, seg := range cfg.Segments {
		if seg.Trajectory == "" {
			return goutils.NewConfigValidationFieldRequiredError(path, fmt.Sprintf("segments[%d].trajectory", i))
		}
	}
	return cfg.Gains.Validate(fmt.Sprintf("%s.gains", path))
}

// Sequencer chains trajectories with actions between them. The active
// segment's index is always a valid index into the segment list while
// running; in terminal states no follower is active.
type Sequencer struct {
	cfg     SequencerConfig
	trajs   []*trajectory.Trajectory
	chassis chassis.Chassis
	logger  golog.Logger

	state    State
	index    int
	follower *follower.Follower
	err      error
}

var _ Runnable = (*Sequencer)(nil)

// NewSequencer validates the config and loads every segment's trajectory up
// front, so no file I/O ever happens once ticking begins. Any missing or
// malformed trajectory fails construction immediately.
func NewSequencer(
	cfg SequencerConfig,
	store *trajectory.Store,
	c chassis.Chassis,
	logger golog.Logger,
) (*Sequencer, error) {
	if err := cfg.Validate(cfg.Name); err != nil {
		return nil, err
	}
	trajs := make([]*trajectory.Trajectory, len(cfg.Segments))
	for i, seg := range cfg.Segments {
		traj, err := store.Load(seg.Trajectory)
		if err != nil {
			return nil, errors.Wrapf(err, "sequencer %q segment %d", cfg.Name, i)
		}
		trajs[i] = traj
	}
	return &Sequencer{
		cfg:     cfg,
		trajs:   trajs,
		chassis: c,
		logger:  logger,
		state:   StateIdle,
	}, nil
}

// Name returns the operator-visible routine name.
func (s *Sequencer) Name() string {
	return s.cfg.Name
}

// Enabled reports whether the sequencer may be selected and run.
func (s *Sequencer) Enabled() bool {
	return s.cfg.Enabled
}

// InitialPose returns the first segment's starting pose, for odometry reset
// before the run.
func (s *Sequencer) InitialPose() trajectory.Pose {
	return s.trajs[0].InitialPose()
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State {
	return s.state
}

// SegmentIndex returns the index of the active (or last active) segment.
func (s *Sequencer) SegmentIndex() int {
	return s.index
}

// Err returns the action error that halted the run, if any.
func (s *Sequencer) Err() error {
	return s.err
}

// Start begins segment 0. Disabled sequencers refuse to start.
func (s *Sequencer) Start(ctx context.Context, now time.Time) error {
	if !s.cfg.Enabled {
		return errors.Wrapf(ErrModeDisabled, "sequencer %q", s.cfg.Name)
	}
	if s.state != StateIdle {
		if s.state == StateRunning {
			return errors.Wrapf(follower.ErrAlreadyRunning, "sequencer %q", s.cfg.Name)
		}
		return errors.Wrapf(follower.ErrInvalidState, "sequencer %q already %s", s.cfg.Name, s.state)
	}
	if err := s.startSegment(0, now); err != nil {
		return err
	}
	s.state = StateRunning
	if s.cfg.OnStart != nil {
		s.cfg.OnStart()
	}
	return nil
}

func (s *Sequencer) startSegment(index int, now time.Time) error {
	f, err := follower.New(s.trajs[index], s.cfg.Gains, s.logger)
	if err != nil {
		return err
	}
	if err := f.Start(now); err != nil {
		return err
	}
	s.index = index
	s.follower = f
	s.logger.Infow("segment started",
		"sequencer", s.cfg.Name,
		"segment", index,
		"trajectory", s.trajs[index].Name(),
	)
	return nil
}

// Tick runs one control period of the active segment. When the segment's
// follower finishes, the chassis is stopped and the segment's action runs to
// completion before the next segment is armed; the next follower takes its
// first tick on the next call.
func (s *Sequencer) Tick(ctx context.Context, pose trajectory.Pose, now time.Time) error {
	if s.state != StateRunning {
		return errors.Wrapf(follower.ErrInvalidState, "sequencer %q tick while %s", s.cfg.Name, s.state)
	}

	cmd, err := s.follower.Tick(pose, now)
	if err != nil {
		return err
	}
	if s.cfg.During != nil {
		s.cfg.During(s.index, s.trajs[s.index].Name(), s.follower.Elapsed(now), s.follower.Duration())
	}
	if err := s.chassis.SetVelocity(ctx, cmd.Linear, cmd.Angular); err != nil {
		return errors.Wrap(err, "failed to command chassis")
	}
	if !s.follower.IsFinished() {
		return nil
	}

	if err := s.chassis.Stop(ctx); err != nil {
		return errors.Wrap(err, "failed to stop chassis")
	}
	if action := s.cfg.Segments[s.index].Action; action != nil {
		if err := action(ctx); err != nil {
			s.follower = nil
			s.state = StateErrored
			s.err = &ActionError{Segment: s.index, Err: err}
			s.logger.Errorw("segment action failed",
				"sequencer", s.cfg.Name,
				"segment", s.index,
				"error", err,
			)
			return s.err
		}
		s.logger.Infow("segment action ran", "sequencer", s.cfg.Name, "segment", s.index)
	}

	if s.index == len(s.cfg.Segments)-1 {
		s.follower = nil
		s.state = StateCompleted
		s.logger.Infow("sequencer completed", "sequencer", s.cfg.Name)
		return nil
	}
	return s.startSegment(s.index+1, now)
}

// Done reports whether the sequencer reached a terminal state.
func (s *Sequencer) Done() bool {
	return s.state == StateCompleted || s.state == StateInterrupted || s.state == StateErrored
}

// Interrupt abandons the run at a tick boundary. The active follower is
// interrupted and no pending actions execute.
func (s *Sequencer) Interrupt() {
	if s.state != StateIdle && s.state != StateRunning {
		return
	}
	if s.follower != nil {
		s.follower.Interrupt()
		s.follower = nil
	}
	s.state = StateInterrupted
	s.logger.Infow("sequencer interrupted", "sequencer", s.cfg.Name, "segment", s.index)
}
