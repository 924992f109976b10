package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/storage"
)

type recordingWriter struct {
	frames [][]geom.Point
	failAt int
}

var errDiskFull = errors.New("disk full")

func (w *recordingWriter) Write(points []geom.Point) error {
	if w.failAt > 0 && len(w.frames)+1 == w.failAt {
		return errDiskFull
	}
	frame := make([]geom.Point, len(points))
	copy(frame, points)
	w.frames = append(w.frames, frame)
	return nil
}

type recordingField struct {
	seen [][]geom.Point
}

func (f *recordingField) Name() string { return "recording" }

func (f *recordingField) Forces(bodies []physics.Particle) []geom.Vector {
	pos := make([]geom.Point, len(bodies))
	for i, b := range bodies {
		pos[i] = b.Position()
	}
	f.seen = append(f.seen, pos)
	out := make([]geom.Vector, len(bodies))
	for i := range out {
		out[i] = geom.NewVector(1, 0)
	}
	return out
}

func pair(t *testing.T) *physics.Bodies {
	t.Helper()
	bodies := physics.NewBodies()
	if _, err := bodies.Add(1, geom.NewPoint(0, 0), geom.Zero()); err != nil {
		t.Fatal(err)
	}
	if _, err := bodies.Add(1, geom.NewPoint(1, 0), geom.Zero()); err != nil {
		t.Fatal(err)
	}
	return bodies
}

func bruteForce(t *testing.T) *field.BruteForce {
	t.Helper()
	bf, err := field.NewBruteForce(field.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return bf
}

func TestNewRejectsNil(t *testing.T) {
	if _, err := New(nil, Discard); !errors.Is(err, ErrNilBodies) {
		t.Errorf("expected ErrNilBodies, got %v", err)
	}
	if _, err := New(physics.NewBodies(), nil); !errors.Is(err, ErrNilWriter) {
		t.Errorf("expected ErrNilWriter, got %v", err)
	}
}

func TestConcreteTwoBodyStep(t *testing.T) {
	bodies := pair(t)
	w := &recordingWriter{}
	env, err := New(bodies, w, bruteForce(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := env.Step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}

	// G = 1, softening = 1e-2: |F| = 1/(1 + 1e-4)
	const dv = 0.9999000099990001
	const tol = 1e-12

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"body0 vx", bodies.At(0).Velocity().DX, dv},
		{"body0 vy", bodies.At(0).Velocity().DY, 0},
		{"body0 x", bodies.At(0).Position().X, dv},
		{"body0 y", bodies.At(0).Position().Y, 0},
		{"body1 vx", bodies.At(1).Velocity().DX, -dv},
		{"body1 vy", bodies.At(1).Velocity().DY, 0},
		{"body1 x", bodies.At(1).Position().X, 1 - dv},
		{"body1 y", bodies.At(1).Position().Y, 0},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > tol {
			t.Errorf("%s = %.17g, want %.17g", tt.name, tt.got, tt.want)
		}
	}

	if len(w.frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(w.frames))
	}
	if w.frames[0][0] != bodies.At(0).Position() || w.frames[0][1] != bodies.At(1).Position() {
		t.Errorf("frame %v does not match body positions", w.frames[0])
	}
}

func TestStepOrdering(t *testing.T) {
	bodies := physics.NewBodies()
	bodies.Add(2, geom.NewPoint(0, 0), geom.NewVector(0, 1))
	bodies.Add(4, geom.NewPoint(3, 3), geom.NewVector(-1, 0))

	f := &recordingField{}
	w := &recordingWriter{}
	env, err := New(bodies, w, f)
	if err != nil {
		t.Fatal(err)
	}

	if err := env.Step(); err != nil {
		t.Fatal(err)
	}

	// forces see the positions from before the step
	if len(f.seen) != 1 {
		t.Fatalf("expected 1 force evaluation, got %d", len(f.seen))
	}
	if f.seen[0][0] != geom.NewPoint(0, 0) || f.seen[0][1] != geom.NewPoint(3, 3) {
		t.Errorf("field saw %v", f.seen[0])
	}

	// velocity is updated before position
	if got := bodies.At(0).Velocity(); got != geom.NewVector(0.5, 1) {
		t.Errorf("body0 velocity = %v", got)
	}
	if got := bodies.At(0).Position(); got != geom.NewPoint(0.5, 1) {
		t.Errorf("body0 position = %v", got)
	}
	if got := bodies.At(1).Velocity(); got != geom.NewVector(-0.75, 0) {
		t.Errorf("body1 velocity = %v", got)
	}
	if got := bodies.At(1).Position(); got != geom.NewPoint(2.25, 3) {
		t.Errorf("body1 position = %v", got)
	}
}

func TestMomentumConservation(t *testing.T) {
	bodies := physics.NewBodies()
	bodies.Add(1, geom.NewPoint(0, 0), geom.NewVector(0, 0.3))
	bodies.Add(2, geom.NewPoint(5, 0), geom.NewVector(0, -0.15))

	env, err := New(bodies, Discard, bruteForce(t))
	if err != nil {
		t.Fatal(err)
	}

	px0, py0 := physics.Momentum(bodies.Particles(), bodies.Velocities())

	res, err := env.Run(context.Background(), 5000)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.StepsTaken != 5000 {
		t.Errorf("expected 5000 steps, got %d", res.StepsTaken)
	}

	px, py := physics.Momentum(bodies.Particles(), bodies.Velocities())
	if math.Abs(px-px0) > 1e-9 || math.Abs(py-py0) > 1e-9 {
		t.Errorf("momentum drifted from (%g, %g) to (%g, %g)", px0, py0, px, py)
	}
}

func TestMultipleFieldsSum(t *testing.T) {
	bodies := physics.NewBodies()
	bodies.Add(2, geom.NewPoint(0, 0), geom.Zero())

	env, err := New(bodies, Discard, field.NewUniform(0, -1), field.NewUniform(3, 0))
	if err != nil {
		t.Fatal(err)
	}
	if err := env.Step(); err != nil {
		t.Fatal(err)
	}

	if got := bodies.At(0).Velocity(); got != geom.NewVector(3, -1) {
		t.Errorf("velocity = %v, want (3, -1)", got)
	}
}

func TestNoFieldsDrift(t *testing.T) {
	bodies := physics.NewBodies()
	bodies.Add(1, geom.NewPoint(1, 1), geom.NewVector(0.5, -0.5))

	env, _ := New(bodies, Discard)
	if env.Field() != nil {
		t.Errorf("expected nil field")
	}
	if _, err := env.Run(context.Background(), 4); err != nil {
		t.Fatal(err)
	}
	if got := bodies.At(0).Position(); got != geom.NewPoint(3, -1) {
		t.Errorf("position = %v, want (3, -1)", got)
	}
}

func TestOneWritePerStep(t *testing.T) {
	w := &recordingWriter{}
	env, err := New(pair(t), w, bruteForce(t))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := env.Run(context.Background(), 7); err != nil {
		t.Fatal(err)
	}
	if len(w.frames) != 7 {
		t.Errorf("expected 7 frames, got %d", len(w.frames))
	}
	if env.Steps() != 7 {
		t.Errorf("Steps() = %d, want 7", env.Steps())
	}
}

func TestWriteFailureStopsRun(t *testing.T) {
	w := &recordingWriter{failAt: 3}
	env, err := New(pair(t), w, bruteForce(t))
	if err != nil {
		t.Fatal(err)
	}

	res, err := env.Run(context.Background(), 10)
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("expected disk full error, got %v", err)
	}

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %T", err)
	}
	if stepErr.Step != 2 {
		t.Errorf("failed at step %d, want 2", stepErr.Step)
	}
	if res.StepsTaken != 2 {
		t.Errorf("StepsTaken = %d, want 2", res.StepsTaken)
	}
	if len(w.frames) != 2 {
		t.Errorf("expected 2 frames, got %d", len(w.frames))
	}
}

func TestRunCanceled(t *testing.T) {
	env, _ := New(pair(t), Discard, bruteForce(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := env.Run(ctx, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d, want 0", res.StepsTaken)
	}
}

func TestRunNegativeSteps(t *testing.T) {
	env, _ := New(pair(t), Discard)
	if _, err := env.Run(context.Background(), -1); !errors.Is(err, ErrSteps) {
		t.Errorf("expected ErrSteps, got %v", err)
	}
}

type countMetric struct {
	observed []int
}

func (c *countMetric) Name() string { return "count" }
func (c *countMetric) Observe(step int, _ *physics.Bodies) {
	c.observed = append(c.observed, step)
}
func (c *countMetric) Value() float64 { return float64(len(c.observed)) }
func (c *countMetric) Reset()         { c.observed = nil }

func TestMetricsAndObservers(t *testing.T) {
	env, _ := New(pair(t), Discard, bruteForce(t))

	m := &countMetric{}
	env.AddMetric(m)

	var steps []int
	env.AddObserver(ObserverFunc(func(step int, _ *physics.Bodies) {
		steps = append(steps, step)
	}))

	res, err := env.Run(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}

	if res.Metrics["count"] != 4 {
		t.Errorf("count = %v, want 4", res.Metrics["count"])
	}
	want := []int{0, 1, 2, 3}
	for i, s := range want {
		if m.observed[i] != s {
			t.Errorf("metric observation %d at step %d, want %d", i, m.observed[i], s)
		}
	}
	if len(steps) != 3 || steps[0] != 0 || steps[2] != 2 {
		t.Errorf("observer saw steps %v", steps)
	}
}

func TestPersistenceScenario(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	w, err := storage.NewFrameWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	bodies := pair(t)
	bodies.Add(3, geom.NewPoint(-2, 4), geom.NewVector(0.1, 0))

	env, err := New(bodies, w, bruteForce(t))
	if err != nil {
		t.Fatal(err)
	}

	var want [][]geom.Point
	env.AddObserver(ObserverFunc(func(_ int, b *physics.Bodies) {
		want = append(want, b.Positions())
	}))

	if _, err := env.Run(context.Background(), 3); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 frame files, got %d", len(entries))
	}

	for n := 0; n < 3; n++ {
		data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("frame-%d.txt", n)))
		if err != nil {
			t.Fatalf("frame %d: %v", n, err)
		}
		expected := ""
		for _, p := range want[n] {
			expected += storage.FormatPoint(p) + "\n"
		}
		if string(data) != expected {
			t.Errorf("frame %d = %q, want %q", n, data, expected)
		}
	}
}
