package follower

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestGainsValidate(t *testing.T) {
	for _, c := range []struct {
		name  string
		gains Gains
		ok    bool
	}{
		{"zero", Gains{}, true},
		{"typical", Gains{KpX: 4, KpY: 4, KpHeading: 6}, true},
		{"negative x", Gains{KpX: -1}, false},
		{"negative y", Gains{KpY: -1}, false},
		{"negative heading", Gains{KpHeading: -1}, false},
	} {
		t.Run(c.name, func(t *testing.T) {
			err := c.gains.Validate("gains")
			if c.ok {
				test.That(t, err, test.ShouldBeNil)
			} else {
				test.That(t, err, test.ShouldNotBeNil)
			}
		})
	}
}

func TestLoadGains(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gains.json")
	err := os.WriteFile(path, []byte(`{"kp_x": 4, "kp_y": 3.5, "kp_heading": 6}`), 0o600)
	test.That(t, err, test.ShouldBeNil)

	gains, err := LoadGains(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gains, test.ShouldResemble, Gains{KpX: 4, KpY: 3.5, KpHeading: 6})

	_, err = LoadGains(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	bad := filepath.Join(dir, "bad.json")
	err = os.WriteFile(bad, []byte(`{"kp_x": -2}`), 0o600)
	test.That(t, err, test.ShouldBeNil)
	_, err = LoadGains(bad)
	test.That(t, err, test.ShouldNotBeNil)

	garbage := filepath.Join(dir, "garbage.json")
	err = os.WriteFile(garbage, []byte("{"), 0o600)
	test.That(t, err, test.ShouldBeNil)
	_, err = LoadGains(garbage)
	test.That(t, err, test.ShouldNotBeNil)
}
