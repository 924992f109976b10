package sim

import (
	"context"
	"time"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// Environment advances a set of bodies under one or more force fields and
// hands every resulting frame to a writer.
type Environment struct {
	bodies    *physics.Bodies
	field     field.Field
	writer    FrameWriter
	metrics   []Metric
	observers []Observer
	step      int
}

// New builds an environment. With no fields the bodies move in straight
// lines. Several fields are summed per body.
func New(bodies *physics.Bodies, writer FrameWriter, fields ...field.Field) (*Environment, error) {
	if bodies == nil {
		return nil, ErrNilBodies
	}
	if writer == nil {
		return nil, ErrNilWriter
	}

	var f field.Field
	if len(fields) > 0 {
		f = field.Sum(fields...)
	}

	return &Environment{
		bodies:    bodies,
		field:     f,
		writer:    writer,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (e *Environment) AddMetric(m Metric)     { e.metrics = append(e.metrics, m) }
func (e *Environment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

func (e *Environment) Bodies() *physics.Bodies { return e.bodies }

// Field returns the combined field, or nil when the environment has none.
func (e *Environment) Field() field.Field { return e.field }

// Steps reports how many steps have completed.
func (e *Environment) Steps() int { return e.step }

func (e *Environment) forces() []geom.Vector {
	if e.field == nil {
		return make([]geom.Vector, e.bodies.Len())
	}
	return e.field.Forces(e.bodies.Particles())
}

// Step runs one semi-implicit Euler step: every force is computed from the
// current positions, then every velocity is updated, then every position,
// then the frame is written. A write failure is returned as a *StepError
// and the step counter does not advance.
func (e *Environment) Step() error {
	forces := e.forces()

	all := e.bodies.All()
	for i, b := range all {
		b.ApplyForce(forces[i])
	}
	for _, b := range all {
		b.ApplyVelocity()
	}

	if err := e.writer.Write(e.bodies.Positions()); err != nil {
		return &StepError{Step: e.step, Err: err}
	}

	for _, m := range e.metrics {
		m.Observe(e.step+1, e.bodies)
	}
	for _, obs := range e.observers {
		obs.OnStep(e.step, e.bodies)
	}
	e.step++
	return nil
}

// Run executes steps until the count is reached, a step fails or ctx is
// done. Metrics are reset, then observe the initial state and the state
// after every step. The result is returned even when err is non-nil.
func (e *Environment) Run(ctx context.Context, steps int) (*Result, error) {
	if steps < 0 {
		return nil, ErrSteps
	}

	result := &Result{Metrics: make(map[string]float64)}

	for _, m := range e.metrics {
		m.Reset()
		m.Observe(e.step, e.bodies)
	}

	start := time.Now()
	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
			runErr = e.Step()
		}
		if runErr != nil {
			break
		}
		result.StepsTaken++
	}
	result.Elapsed = time.Since(start)

	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, runErr
}
