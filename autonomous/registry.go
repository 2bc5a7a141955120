package autonomous

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry is the set of autonomous modes offered for operator selection.
// Disabled modes may be registered but are never listed or selectable.
type Registry struct {
	mu          sync.Mutex
	modes       map[string]Mode
	order       []string
	defaultName string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modes: map[string]Mode{}}
}

// Register adds a mode. Duplicate names are rejected.
func (r *Registry) Register(mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(mode)
}

// RegisterDefault adds a mode and marks it as the default selection. A
// second default is rejected outright: which one would win should never
// depend on registration order.
func (r *Registry) RegisterDefault(mode Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultName != "" {
		return errors.Errorf("default mode already set to %q, cannot also default %q", r.defaultName, mode.Name())
	}
	if !mode.Enabled() {
		return errors.Wrapf(ErrModeDisabled, "default mode %q", mode.Name())
	}
	if err := r.register(mode); err != nil {
		return err
	}
	r.defaultName = mode.Name()
	return nil
}

func (r *Registry) register(mode Mode) error {
	name := mode.Name()
	if name == "" {
		return errors.New("cannot register a mode with an empty name")
	}
	if _, ok := r.modes[name]; ok {
		return errors.Errorf("mode %q already registered", name)
	}
	r.modes[name] = mode
	r.order = append(r.order, name)
	return nil
}

// List returns the names of all enabled modes, in registration order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, name := range r.order {
		if r.modes[name].Enabled() {
			names = append(names, name)
		}
	}
	return names
}

// Select returns the enabled mode with the given name.
func (r *Registry) Select(name string) (Mode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mode, ok := r.modes[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMode, "%q", name)
	}
	if !mode.Enabled() {
		return nil, errors.Wrapf(ErrModeDisabled, "%q", name)
	}
	return mode, nil
}

// Default returns the registered default mode, if any.
func (r *Registry) Default() (Mode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.defaultName == "" {
		return nil, false
	}
	return r.modes[r.defaultName], true
}
