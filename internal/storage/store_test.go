package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

func newRun(t *testing.T, st *Store) *Run {
	t.Helper()
	run, err := st.Create(RunMetadata{
		Scenario:  "pair",
		Field:     "bruteforce",
		Seed:      42,
		Bodies:    2,
		G:         1,
		Softening: 0.01,
		Masses:    []float64{1, 1},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	return run
}

func TestStoreCreateLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	run := newRun(t, st)
	if run.ID == "" {
		t.Error("expected non-empty run id")
	}

	for i := 0; i < 3; i++ {
		pts := []geom.Point{geom.NewPoint(float64(i), 0), geom.NewPoint(1, float64(i))}
		if err := run.Write(pts); err != nil {
			t.Fatalf("write frame %d: %v", i, err)
		}
		if err := run.RecordMetrics(i, map[string]float64{"energy": -1.5, "momentum": 0}); err != nil {
			t.Fatalf("record metrics: %v", err)
		}
	}
	if err := run.Finish(3, 2*time.Second, map[string]float64{"energy_drift": 1e-6}); err != nil {
		t.Fatalf("finish failed: %v", err)
	}

	meta, err := st.Load(run.ID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "pair" || meta.Field != "bruteforce" {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if !meta.Complete || meta.Steps != 3 {
		t.Errorf("expected complete run with 3 steps, got %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 1e-6 {
		t.Errorf("expected energy_drift 1e-6, got %v", meta.Metrics["energy_drift"])
	}

	n, err := st.FrameCount(run.ID)
	if err != nil || n != 3 {
		t.Fatalf("FrameCount = %d, %v", n, err)
	}
	pts, err := st.ReadFrame(run.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pts[0] != geom.NewPoint(2, 0) || pts[1] != geom.NewPoint(1, 2) {
		t.Errorf("frame 2 = %v", pts)
	}

	series, err := st.LoadMetrics(run.ID)
	if err != nil {
		t.Fatalf("load metrics: %v", err)
	}
	if len(series["energy"]) != 3 || series["energy"][0] != -1.5 {
		t.Errorf("energy series = %v", series["energy"])
	}
	if len(series["step"]) != 3 || series["step"][2] != 2 {
		t.Errorf("step series = %v", series["step"])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first := newRun(t, st)
	second := newRun(t, st)
	if first.ID == second.ID {
		t.Fatalf("run ids collide: %s", first.ID)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	run := newRun(t, st)

	if err := run.Write([]geom.Point{geom.Origin()}); err != nil {
		t.Fatal(err)
	}
	if err := run.Finish(1, time.Millisecond, nil); err != nil {
		t.Fatal(err)
	}

	for _, p := range []string{
		filepath.Join(tmpDir, run.ID, "metadata.json"),
		filepath.Join(tmpDir, run.ID, "frames", "frame-0.txt"),
	} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			t.Errorf("%s not created", p)
		}
	}
}

func TestStoreExport(t *testing.T) {
	st := New(t.TempDir())
	run := newRun(t, st)
	run.Write([]geom.Point{geom.NewPoint(1, 2), geom.NewPoint(3, 4)})
	run.Finish(1, 0, nil)

	var buf bytes.Buffer
	if err := st.Export(run.ID, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Frames) != 1 || data.Frames[0][1] != [2]float64{3, 4} {
		t.Errorf("unexpected frames: %v", data.Frames)
	}
	if data.Run.ID != run.ID {
		t.Errorf("run id = %q, want %q", data.Run.ID, run.ID)
	}
}

func TestRunSetBodies(t *testing.T) {
	st := New(t.TempDir())
	run := newRun(t, st)

	bodies := physics.NewBodies()
	bodies.Add(1.5, geom.Origin(), geom.Zero())
	bodies.Add(3, geom.NewPoint(1, 1), geom.Zero())
	bodies.Add(0.25, geom.NewPoint(2, 1), geom.Zero())

	if err := run.SetBodies(bodies.Particles()); err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Bodies != 3 {
		t.Errorf("bodies = %d, want 3", meta.Bodies)
	}
	want := []float64{1.5, 3, 0.25}
	for i, m := range want {
		if meta.Masses[i] != m {
			t.Errorf("mass %d = %v, want %v", i, meta.Masses[i], m)
		}
	}
}
