package sim

import (
	"time"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

// FrameWriter persists the positions produced by one step, in body order.
type FrameWriter interface {
	Write(points []geom.Point) error
}

type discard struct{}

func (discard) Write([]geom.Point) error { return nil }

// Discard is a FrameWriter that drops every frame.
var Discard FrameWriter = discard{}

type Metric interface {
	Name() string
	Observe(step int, bodies *physics.Bodies)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, bodies *physics.Bodies)
}

type ObserverFunc func(step int, bodies *physics.Bodies)

func (f ObserverFunc) OnStep(step int, bodies *physics.Bodies) { f(step, bodies) }

type Result struct {
	StepsTaken int
	Elapsed    time.Duration
	Metrics    map[string]float64
}
