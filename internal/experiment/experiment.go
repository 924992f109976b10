package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

var ErrNotSetup = errors.New("experiment: not set up")

// Experiment turns a Config into a running environment.
type Experiment struct {
	cfg      *config.Config
	registry *Registry
	env      *sim.Environment
}

func New(cfg *config.Config, registry *Registry) *Experiment {
	return &Experiment{cfg: cfg, registry: registry}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Bodies generates the initial body set of the configured scenario.
func (e *Experiment) Bodies() (*physics.Bodies, error) {
	sc := e.cfg.Scenario
	specs := make([]scenario.BodySpec, len(sc.Bodies))
	for i, b := range sc.Bodies {
		specs[i] = scenario.BodySpec{Mass: b.Mass, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY}
	}

	return scenario.Generate(sc.Name, scenario.Params{
		Count:       sc.Count,
		Seed:        sc.Seed,
		Radius:      sc.Radius,
		Mass:        sc.Mass,
		CentralMass: sc.CentralMass,
		G:           e.cfg.Field.G,
		Bodies:      specs,
	})
}

// Fields builds the gravity field and, if configured, the uniform field.
func (e *Experiment) Fields() ([]field.Field, error) {
	gravity, err := e.registry.GetField(e.cfg.Field.Kind, e.cfg.FieldParams())
	if err != nil {
		return nil, err
	}
	fields := []field.Field{gravity}
	if u := e.cfg.Field.Uniform; u != nil {
		fields = append(fields, field.NewUniform(u.AX, u.AY))
	}
	return fields, nil
}

func (e *Experiment) Setup(writer sim.FrameWriter) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	bodies, err := e.Bodies()
	if err != nil {
		return err
	}
	fields, err := e.Fields()
	if err != nil {
		return err
	}

	env, err := sim.New(bodies, writer, fields...)
	if err != nil {
		return err
	}
	for _, m := range e.registry.DefaultMetrics(e.cfg.Field.G, e.cfg.Field.Softening, e.cfg.Scenario.Radius) {
		env.AddMetric(m)
	}
	e.env = env
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.env == nil {
		return nil, ErrNotSetup
	}
	return e.env.Run(ctx, e.cfg.Run.Steps)
}

// Environment returns the underlying environment for adding observers.
func (e *Experiment) Environment() *sim.Environment {
	return e.env
}

func (e *Experiment) metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Scenario:  e.cfg.Scenario.Name,
		Field:     e.cfg.Field.Kind,
		Seed:      e.cfg.Scenario.Seed,
		G:         e.cfg.Field.G,
		Softening: e.cfg.Field.Softening,
		Theta:     e.cfg.Field.Theta,
		MaxDepth:  e.cfg.Field.MaxDepth,
	}
}

// Execute sets up the experiment against a new run in store, samples the
// conserved quantities every cfg.Run.Every steps into metrics.csv and
// finalizes the run metadata. The run directory is kept even when the
// simulation fails, marked incomplete.
func Execute(ctx context.Context, cfg *config.Config, registry *Registry, store *storage.Store, observers ...sim.Observer) (*storage.Run, *sim.Result, error) {
	if err := store.Init(); err != nil {
		return nil, nil, err
	}

	e := New(cfg, registry)
	// fail before creating a run directory
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if _, err := e.Fields(); err != nil {
		return nil, nil, err
	}

	run, err := store.Create(e.metadata())
	if err != nil {
		return nil, nil, err
	}

	if err := e.Setup(run); err != nil {
		run.Close()
		return run, nil, err
	}

	env := e.Environment()
	bodies := env.Bodies()
	if err := run.SetBodies(bodies.Particles()); err != nil {
		run.Close()
		return run, nil, err
	}

	var recordErr error
	record := func(step int) {
		if recordErr != nil {
			return
		}
		recordErr = run.RecordMetrics(step, metrics.Snapshot(bodies, cfg.Field.G, cfg.Field.Softening))
	}
	record(0)
	env.AddObserver(sim.ObserverFunc(func(step int, _ *physics.Bodies) {
		if (step+1)%cfg.Run.Every == 0 {
			record(step + 1)
		}
	}))
	for _, o := range observers {
		env.AddObserver(o)
	}

	result, runErr := e.Run(ctx)
	if runErr != nil {
		run.Close()
		return run, result, runErr
	}
	if recordErr != nil {
		run.Close()
		return run, result, fmt.Errorf("experiment: recording metrics: %w", recordErr)
	}

	if err := run.Finish(result.StepsTaken, result.Elapsed, result.Metrics); err != nil {
		return run, result, err
	}
	return run, result, nil
}
