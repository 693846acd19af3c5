package unit

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownUnit is returned for a type name without a factory.
	ErrUnknownUnit = errors.New("unit: unknown unit type")
	// ErrDuplicateUnit is returned when a type name is registered twice.
	ErrDuplicateUnit = errors.New("unit: duplicate unit type")
)

// Factory builds a unit for the given number of channels.
type Factory func(channels int) (Unit, error)

// Registry maps unit type names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given type name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("unit: empty unit type")
	}

	if factory == nil {
		return fmt.Errorf("unit: nil factory for %q", name)
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateUnit, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err.Error())
	}
}

// Lookup returns the factory for the given type name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// New builds a unit of the given type.
func (r *Registry) New(name string, channels int) (Unit, error) {
	factory := r.factories[name]
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, name)
	}

	u, err := factory(channels)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", name, err)
	}

	return u, nil
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}
