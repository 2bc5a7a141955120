package follower

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// Gains holds the proportional correction gains of the trajectory follower.
// Corrections are applied in the robot-relative frame, so the gains are tuned
// in robot-relative axes. All three must be non-negative; zero disables
// correction on that axis, leaving pure feedforward.
type Gains struct {
	KpX       float64 `json:"kp_x"`
	KpY       float64 `json:"kp_y"`
	KpHeading float64 `json:"kp_heading"`
}

// Validate ensures all parts of the config are valid.
func (g *Gains) Validate(path string) error {
	if g.KpX < 0 {
		return goutils.NewConfigValidationError(path, errors.New("kp_x must be non-negative"))
	}
	if g.KpY < 0 {
		return goutils.NewConfigValidationError(path, errors.New("kp_y must be non-negative"))
	}
	if g.KpHeading < 0 {
		return goutils.NewConfigValidationError(path, errors.New("kp_heading must be non-negative"))
	}
	return nil
}

// LoadGains reads and validates gains from a JSON file.
func LoadGains(path string) (Gains, error) {
	var gains Gains
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return gains, errors.Wrap(err, "failed to read gains config")
	}
	if err := json.Unmarshal(data, &gains); err != nil {
		return gains, errors.Wrap(err, "failed to parse gains config")
	}
	if err := gains.Validate(path); err != nil {
		return gains, err
	}
	return gains, nil
}
