package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/physics"
)

const (
	metadataFile = "metadata.json"
	metricsFile  = "metrics.csv"
	framesDir    = "frames"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Field     string             `json:"field"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Bodies    int                `json:"bodies"`
	Steps     int                `json:"steps"`
	G         float64            `json:"g"`
	Softening float64            `json:"softening"`
	Theta     float64            `json:"theta,omitempty"`
	MaxDepth  int                `json:"max_depth,omitempty"`
	Masses    []float64          `json:"masses"`
	Complete  bool               `json:"complete"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Run is one simulation output directory: metadata.json, frames/ and
// metrics.csv. It implements the frame writer used by the driver.
type Run struct {
	ID   string
	Dir  string
	meta RunMetadata

	frames     *FrameWriter
	metricFile *os.File
	metricCSV  *csv.Writer
	metricKeys []string
}

// Create allocates a new run directory and writes its initial metadata.
func (s *Store) Create(meta RunMetadata) (*Run, error) {
	base := fmt.Sprintf("%s_%s_%d", meta.Scenario, meta.Field, time.Now().Unix())
	runID := base
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	frames, err := NewFrameWriter(filepath.Join(runDir, framesDir))
	if err != nil {
		return nil, err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	r := &Run{ID: runID, Dir: runDir, meta: meta, frames: frames}
	if err := r.writeMetadata(); err != nil {
		return nil, err
	}
	return r, nil
}

// SetBodies records the body count and masses of the initial state.
func (r *Run) SetBodies(bodies []physics.Particle) error {
	r.meta.Bodies = len(bodies)
	r.meta.Masses = make([]float64, len(bodies))
	for i, b := range bodies {
		r.meta.Masses[i] = b.Mass().Value()
	}
	return r.writeMetadata()
}

func (r *Run) Write(points []geom.Point) error { return r.frames.Write(points) }

func (r *Run) Frames() int { return r.frames.Frames() }

// RecordMetrics appends one row to metrics.csv. The column set is fixed by
// the first call.
func (r *Run) RecordMetrics(step int, values map[string]float64) error {
	if r.metricCSV == nil {
		f, err := os.Create(filepath.Join(r.Dir, metricsFile))
		if err != nil {
			return err
		}
		r.metricFile = f
		r.metricCSV = csv.NewWriter(f)

		for k := range values {
			r.metricKeys = append(r.metricKeys, k)
		}
		sort.Strings(r.metricKeys)

		header := append([]string{"step"}, r.metricKeys...)
		if err := r.metricCSV.Write(header); err != nil {
			return err
		}
	}

	row := []string{strconv.Itoa(step)}
	for _, k := range r.metricKeys {
		row = append(row, strconv.FormatFloat(values[k], 'g', 12, 64))
	}
	if err := r.metricCSV.Write(row); err != nil {
		return err
	}
	r.metricCSV.Flush()
	return r.metricCSV.Error()
}

// Finish records the final summary and closes open files.
func (r *Run) Finish(steps int, elapsed time.Duration, metrics map[string]float64) error {
	r.meta.Steps = steps
	r.meta.Elapsed = elapsed.Seconds()
	r.meta.Complete = true
	for k, v := range metrics {
		r.meta.Metrics[k] = v
	}

	if err := r.Close(); err != nil {
		return err
	}
	return r.writeMetadata()
}

func (r *Run) Close() error {
	if r.metricFile == nil {
		return nil
	}
	r.metricCSV.Flush()
	err := r.metricCSV.Error()
	if cerr := r.metricFile.Close(); err == nil {
		err = cerr
	}
	r.metricFile = nil
	r.metricCSV = nil
	return err
}

func (r *Run) writeMetadata() error {
	metaFile, err := os.Create(filepath.Join(r.Dir, metadataFile))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(r.meta)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) FramesDir(runID string) string {
	return filepath.Join(s.baseDir, runID, framesDir)
}

func (s *Store) ReadFrame(runID string, n int) ([]geom.Point, error) {
	return ReadFrame(s.FramesDir(runID), n)
}

func (s *Store) FrameCount(runID string) (int, error) {
	return CountFrames(s.FramesDir(runID))
}

// LoadMetrics reads metrics.csv into one series per column.
func (s *Store) LoadMetrics(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, metricsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := make(map[string][]float64)
	if len(records) < 2 {
		return series, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		for j, name := range header {
			if j >= len(record) {
				continue
			}
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			series[name] = append(series[name], val)
		}
	}
	return series, nil
}
