// Package main implements a replay tool for autonomous routines: it chains
// trajectories into a sequencer and runs them against a kinematic fake
// chassis, so routines and gains can be checked without a robot.
package main

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/scurvybots/swerveauto/autonomous"
	"github.com/scurvybots/swerveauto/chassis/fake"
	"github.com/scurvybots/swerveauto/follower"
	"github.com/scurvybots/swerveauto/trajectory"
)

var logger = golog.NewDevelopmentLogger("swerveauto")

func main() {
	goutils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	DeployDir    string  `flag:"deploy,default=deploy/choreo,usage=directory of .traj files"`
	GainsFile    string  `flag:"gains,usage=path to gains JSON (omit for pure feedforward)"`
	Trajectories string  `flag:"trajectories,usage=comma-separated trajectory names to chain (default: all)"`
	PeriodMS     int     `flag:"period-ms,default=20,usage=control loop period in milliseconds"`
	Mirror       float64 `flag:"mirror,default=0,usage=mirror paths across a field of this length in meters"`
	DriftY       float64 `flag:"drift-y,default=0,usage=world-frame sideways disturbance in m/s"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := goutils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.PeriodMS <= 0 {
		return errors.New("period-ms must be positive")
	}
	period := time.Duration(argsParsed.PeriodMS) * time.Millisecond

	var opts []trajectory.StoreOption
	if argsParsed.Mirror > 0 {
		opts = append(opts, trajectory.WithMirroring(argsParsed.Mirror))
	}
	store := trajectory.NewStore(argsParsed.DeployDir, logger, opts...)

	names, err := trajectoryNames(store, argsParsed.Trajectories)
	if err != nil {
		return err
	}

	var gains follower.Gains
	if argsParsed.GainsFile != "" {
		if gains, err = follower.LoadGains(argsParsed.GainsFile); err != nil {
			return err
		}
	}

	return replay(ctx, store, names, gains, period, argsParsed.DriftY, logger)
}

func trajectoryNames(store *trajectory.Store, flagValue string) ([]string, error) {
	if flagValue != "" {
		return strings.Split(flagValue, ","), nil
	}
	names, err := store.Names()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no trajectories found; pass -deploy or -trajectories")
	}
	return names, nil
}

func replay(
	ctx context.Context,
	store *trajectory.Store,
	names []string,
	gains follower.Gains,
	period time.Duration,
	driftY float64,
	logger golog.Logger,
) (err error) {
	chassis := fake.NewChassis(period, logger)
	if driftY != 0 {
		chassis.SetDrift(trajectory.Velocity{VY: driftY})
	}

	segments := make([]autonomous.Segment, len(names))
	for i, name := range names {
		name := name
		segments[i] = autonomous.Segment{
			Trajectory: name,
			Action: func(ctx context.Context) error {
				logger.Infow("segment action", "trajectory", name, "pose", chassis.Pose())
				return nil
			},
		}
	}

	seq, err := autonomous.NewSequencer(autonomous.SequencerConfig{
		Name:     "replay",
		Enabled:  true,
		Gains:    gains,
		Segments: segments,
		During: func(segment int, name string, elapsed, total float64) {
			logger.Debugw("tick",
				"segment", segment,
				"trajectory", name,
				"elapsed_sec", elapsed,
				"total_sec", total,
				"pose", chassis.Pose(),
			)
		},
	}, store, chassis, logger)
	if err != nil {
		return err
	}

	registry := autonomous.NewRegistry()
	if err := registry.RegisterDefault(seq); err != nil {
		return err
	}
	logger.Infow("autonomous modes", "available", registry.List())

	chassis.SetPose(seq.InitialPose())
	defer func() {
		err = multierr.Combine(err, chassis.Stop(ctx))
	}()

	runner := autonomous.NewRunner(period, nil, chassis, logger)
	if err := runner.Run(ctx, seq); err != nil {
		return err
	}

	final, err := store.Load(names[len(names)-1])
	if err != nil {
		return err
	}
	want := final.FinalPose()
	got := chassis.Pose()
	logger.Infow("replay complete",
		"final_pose", got,
		"target_pose", want,
		"position_error_m", math.Hypot(want.X-got.X, want.Y-got.Y),
	)
	return nil
}
