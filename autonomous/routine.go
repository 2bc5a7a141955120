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

// RoutineConfig configures a single-trajectory autonomous routine.
type RoutineConfig struct {
	Name       string         `json:"name"`
	Trajectory string         `json:"trajectory"`
	Enabled    bool           `json:"enabled"`
	Gains      follower.Gains `json:"gains"`
}

// Validate ensures all parts of the config are valid.
func (cfg *RoutineConfig) Validate(path string) error {
	if cfg.Name == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if cfg.Trajectory == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "trajectory")
	}
	return cfg.Gains.Validate(fmt.Sprintf("%s.gains", path))
}

// Routine drives one trajectory with lifecycle hooks. Its trajectory is
// loaded when the routine is built, never during a tick.
type Routine struct {
	cfg     RoutineConfig
	traj    *trajectory.Trajectory
	chassis chassis.Chassis
	hooks   Hooks
	logger  golog.Logger

	follower *follower.Follower
	ended    bool
}

var _ Runnable = (*Routine)(nil)

// NewRoutine validates the config and loads the routine's trajectory from
// the store. A missing or malformed trajectory fails construction
// immediately; it is never skipped silently.
func NewRoutine(
	cfg RoutineConfig,
	store *trajectory.Store,
	c chassis.Chassis,
	hooks Hooks,
	logger golog.Logger,
) (*Routine, error) {
	if err := cfg.Validate(cfg.Name); err != nil {
		return nil, err
	}
	traj, err := store.Load(cfg.Trajectory)
	if err != nil {
		return nil, errors.Wrapf(err, "routine %q", cfg.Name)
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Routine{
		cfg:     cfg,
		traj:    traj,
		chassis: c,
		hooks:   hooks,
		logger:  logger,
	}, nil
}

// Name returns the operator-visible routine name.
func (r *Routine) Name() string {
	return r.cfg.Name
}

// Enabled reports whether the routine may be selected and run.
func (r *Routine) Enabled() bool {
	return r.cfg.Enabled
}

// InitialPose returns the trajectory's starting pose, for odometry reset
// before the routine runs.
func (r *Routine) InitialPose() trajectory.Pose {
	return r.traj.InitialPose()
}

// Start begins the routine. Disabled routines refuse to start.
func (r *Routine) Start(ctx context.Context, now time.Time) error {
	if !r.cfg.Enabled {
		return errors.Wrapf(ErrModeDisabled, "routine %q", r.cfg.Name)
	}
	if r.follower != nil {
		if r.follower.State() == follower.StateRunning {
			return errors.Wrapf(follower.ErrAlreadyRunning, "routine %q", r.cfg.Name)
		}
		return errors.Wrapf(follower.ErrInvalidState, "routine %q already ran", r.cfg.Name)
	}

	f, err := follower.New(r.traj, r.cfg.Gains, r.logger)
	if err != nil {
		return err
	}
	if err := f.Start(now); err != nil {
		return err
	}
	r.follower = f
	r.logger.Infow("routine started", "routine", r.cfg.Name, "trajectory", r.traj.Name())
	r.hooks.OnStart()
	return nil
}

// Tick runs one control period: compute the follower's command, run the
// OnTick hook, then apply the command to the chassis. On the finishing tick
// the chassis is stopped and OnEnd runs.
func (r *Routine) Tick(ctx context.Context, pose trajectory.Pose, now time.Time) error {
	if r.follower == nil {
		return errors.Wrapf(follower.ErrInvalidState, "routine %q not started", r.cfg.Name)
	}

	cmd, err := r.follower.Tick(pose, now)
	if err != nil {
		return err
	}
	r.hooks.OnTick(r.follower.Elapsed(now), r.follower.Duration())
	if err := r.chassis.SetVelocity(ctx, cmd.Linear, cmd.Angular); err != nil {
		return errors.Wrap(err, "failed to command chassis")
	}

	if r.follower.IsFinished() && !r.ended {
		r.ended = true
		if err := r.chassis.Stop(ctx); err != nil {
			return errors.Wrap(err, "failed to stop chassis")
		}
		r.hooks.OnEnd()
		r.logger.Infow("routine finished", "routine", r.cfg.Name)
	}
	return nil
}

// Done reports whether the routine reached a terminal state.
func (r *Routine) Done() bool {
	return r.follower != nil && r.follower.State() != follower.StateRunning
}

// Interrupt abandons the routine. OnEnd does not run.
func (r *Routine) Interrupt() {
	if r.follower == nil || r.follower.State() != follower.StateRunning {
		return
	}
	r.follower.Interrupt()
	r.logger.Infow("routine interrupted", "routine", r.cfg.Name)
}
