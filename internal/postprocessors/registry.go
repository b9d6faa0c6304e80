package postprocessors

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// ErrUnknownProcessor is returned when a pipeline names an unregistered processor.
var ErrUnknownProcessor = errors.New("unknown processor")

// BuilderFunc constructs a processor from its loosely typed settings,
// as decoded from TOML. cfg may be nil.
type BuilderFunc func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves processor names to builders. It is not safe for
// concurrent registration; fill it before building pipelines.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: map[string]BuilderFunc{}}
}

// Register binds name to builder. Registering a name twice panics.
func (r *Registry) Register(name string, builder BuilderFunc) {
	if _, dup := r.builders[name]; dup {
		panic("postprocessors: Register called twice for " + name)
	}
	r.builders[name] = builder
}

// Build runs the builder registered under name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	if builder, ok := r.builders[name]; ok {
		return builder(cfg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProcessor, name)
}

// BuildPipeline chains the named processors. cfgs is keyed by processor name.
func (r *Registry) BuildPipeline(names []string, cfgs map[string]map[string]any) (*Pipeline, error) {
	procs := make([]driven.PostProcessor, 0, len(names))
	for _, name := range names {
		proc, err := r.Build(name, cfgs[name])
		if err != nil {
			return nil, err
		}
		procs = append(procs, proc)
	}
	return NewPipeline(procs...), nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names lists registered processors alphabetically.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.builders))
}
