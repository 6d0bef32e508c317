package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-emg/emg"
)

// Factory builds one configured Stage from its parameters.
type Factory func(p Params) (Stage, error)

// Registry maps stage type names to their factories.
type Registry struct {
	factories map[string]Factory
}

var errDuplicateStage = errors.New("duplicate stage type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given stage type.
func (r *Registry) Register(stageType string, factory Factory) error {
	if stageType == "" {
		return errors.New("empty stage type")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[stageType]; exists {
		return fmt.Errorf("%w: %s", errDuplicateStage, stageType)
	}

	r.factories[stageType] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(stageType string, factory Factory) {
	err := r.Register(stageType, factory)
	if err != nil {
		panic("pipeline registry: " + err.Error())
	}
}

// Lookup returns the factory for the given stage type, or nil.
func (r *Registry) Lookup(stageType string) Factory {
	return r.factories[stageType]
}

// Types returns the registered stage type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	slices.Sort(types)

	return types
}

// Build constructs a chain from an ordered list of stage parameters.
// An unknown stage type is a ParameterError naming the type.
func (r *Registry) Build(defs []Params) (*Chain, error) {
	stages := make([]Stage, 0, len(defs))
	for _, p := range defs {
		factory := r.Lookup(p.Type)
		if factory == nil {
			return nil, emg.Parameterf("chain", "stage type", "unknown: %q", p.Type)
		}

		s, err := factory(p)
		if err != nil {
			return nil, err
		}

		stages = append(stages, s)
	}

	return NewChain(stages...), nil
}
