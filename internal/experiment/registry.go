package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
)

// stabilityBound flags runs whose bodies leave a box this many scenario
// radii wide.
const stabilityBound = 20.0

type Registry struct {
	fields map[string]func(field.Config) (field.Field, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		fields: make(map[string]func(field.Config) (field.Field, error)),
	}

	r.fields["bruteforce"] = func(cfg field.Config) (field.Field, error) { return field.NewBruteForce(cfg) }
	r.fields["barneshut"] = func(cfg field.Config) (field.Field, error) { return field.NewBarnesHut(cfg) }
	r.fields["gonum"] = func(cfg field.Config) (field.Field, error) { return field.NewPlane(cfg) }

	return r
}

func (r *Registry) GetField(name string, cfg field.Config) (field.Field, error) {
	fn, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown field: %s", name)
	}
	return fn(cfg)
}

func (r *Registry) ListFields() []string {
	names := make([]string, 0, len(r.fields))
	for name := range r.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListScenarios() []string { return scenario.Names() }

func (r *Registry) DefaultMetrics(g, softening, radius float64) []sim.Metric {
	out := make([]sim.Metric, 0, 4)
	for _, m := range metrics.Standard(g, softening) {
		out = append(out, m)
	}
	return append(out, metrics.NewStability(stabilityBound*radius))
}
