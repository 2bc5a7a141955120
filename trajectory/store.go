package trajectory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Extension is the file suffix of trajectory files exported by the planning
// tool.
const Extension = ".traj"

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMirroring makes the store return alliance-mirrored trajectories for a
// field of the given length in meters. Mirroring happens at load time, so
// every consumer of the store sees the same flipped paths.
func WithMirroring(fieldLength float64) StoreOption {
	return func(s *Store) {
		s.mirrorFieldLength = fieldLength
	}
}

// Store loads named trajectories from a directory of <name>.traj files. Loads
// are cached; a trajectory enters the cache only fully parsed and validated,
// so repeated loads of the same name always return identical data.
type Store struct {
	dir               string
	logger            golog.Logger
	mirrorFieldLength float64

	mu    sync.Mutex
	cache map[string]*Trajectory
}

// NewStore returns a store backed by the given directory.
func NewStore(dir string, logger golog.Logger, opts ...StoreOption) *Store {
	s := &Store{
		dir:    dir,
		logger: logger,
		cache:  map[string]*Trajectory{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// trajectoryFile is the on-disk layout owned by the planning tool.
type trajectoryFile struct {
	Samples []sampleRecord `json:"samples"`
}

type sampleRecord struct {
	T       float64 `json:"t"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	VX      float64 `json:"vx"`
	VY      float64 `json:"vy"`
	Omega   float64 `json:"omega"`
}

// Load returns the named trajectory, reading and validating its file on
// first use. A missing file fails with ErrTrajectoryNotFound; data that
// violates the sample invariants fails with ErrMalformedTrajectory.
func (s *Store) Load(name string) (*Trajectory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if traj, ok := s.cache[name]; ok {
		return traj, nil
	}

	path := filepath.Join(s.dir, name+Extension)
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrTrajectoryNotFound, "no trajectory file at %s", path)
		}
		return nil, errors.Wrapf(err, "failed to read trajectory %q", name)
	}

	var file trajectoryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(ErrMalformedTrajectory, "trajectory %q: %s", name, err)
	}
	samples := make([]Sample, len(file.Samples))
	for i, rec := range file.Samples {
		samples[i] = Sample{
			Timestamp: rec.T,
			Pose:      Pose{X: rec.X, Y: rec.Y, Theta: rec.Heading},
			Velocity:  Velocity{VX: rec.VX, VY: rec.VY, Omega: rec.Omega},
		}
	}
	traj, err := New(name, samples)
	if err != nil {
		return nil, err
	}
	if s.mirrorFieldLength > 0 {
		traj = traj.Mirror(s.mirrorFieldLength)
	}

	s.cache[name] = traj
	s.logger.Debugw("loaded trajectory",
		"name", name,
		"samples", traj.Len(),
		"duration_sec", traj.Duration(),
		"mirrored", s.mirrorFieldLength > 0,
	)
	return traj, nil
}

// Names returns the names of all trajectory files in the store's directory,
// sorted.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list trajectory directory %s", s.dir)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), Extension))
	}
	sort.Strings(names)
	return names, nil
}
