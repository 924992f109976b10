package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

var (
	ErrEmpty  = errors.New("batch: script has no runs")
	ErrPreset = errors.New("batch: unknown preset")
)

// Script is a YAML list of runs executed in order.
type Script struct {
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	Runs            []Run  `yaml:"runs"`
}

// Run starts from the defaults, or from Preset ("scenario/name") when set,
// and applies Config on top. Repeat > 1 runs the same configuration with
// consecutive seeds.
type Run struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Repeat int       `yaml:"repeat"`
	Config yaml.Node `yaml:"config"`
}

type Outcome struct {
	Name   string
	Seed   int64
	RunID  string
	Result *sim.Result
	Err    error
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("batch: parse: %w", err)
	}
	if len(script.Runs) == 0 {
		return nil, ErrEmpty
	}
	return &script, nil
}

// Resolve builds the configurations of one run, one per repetition.
func (r *Run) Resolve() ([]*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		scenario, name, _ := strings.Cut(r.Preset, "/")
		cfg = config.GetPreset(scenario, name)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrPreset, r.Preset)
		}
	}
	if !r.Config.IsZero() {
		if err := r.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("batch: run %s: %w", r.Name, err)
		}
	}

	n := r.Repeat
	if n < 1 {
		n = 1
	}
	out := make([]*config.Config, n)
	for i := range out {
		c := cfg.Clone()
		c.Scenario.Seed = cfg.Scenario.Seed + int64(i)
		out[i] = c
	}
	return out, nil
}

// Execute runs every configuration of the script against store, writing
// one progress line per run to w. It stops at the first failure unless the
// script sets continue_on_error.
func Execute(ctx context.Context, script *Script, registry *experiment.Registry, store *storage.Store, w io.Writer) ([]Outcome, error) {
	type job struct {
		name string
		cfg  *config.Config
	}

	var jobs []job
	for i := range script.Runs {
		r := &script.Runs[i]
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("run-%d", i+1)
		}
		cfgs, err := r.Resolve()
		if err != nil {
			return nil, err
		}
		for _, cfg := range cfgs {
			jobs = append(jobs, job{name: name, cfg: cfg})
		}
	}

	outcomes := make([]Outcome, 0, len(jobs))
	for i, j := range jobs {
		fmt.Fprintf(w, "Running %d/%d: %s (%s, %s, seed %d)\n",
			i+1, len(jobs), j.name, j.cfg.Scenario.Name, j.cfg.Field.Kind, j.cfg.Scenario.Seed)

		run, result, err := experiment.Execute(ctx, j.cfg, registry, store)
		o := Outcome{Name: j.name, Seed: j.cfg.Scenario.Seed, Result: result, Err: err}
		if run != nil {
			o.RunID = run.ID
		}
		outcomes = append(outcomes, o)

		if err != nil {
			if ctx.Err() != nil || !script.ContinueOnError {
				return outcomes, fmt.Errorf("%s: %w", j.name, err)
			}
			fmt.Fprintf(w, "  failed: %v\n", err)
		}
	}
	return outcomes, nil
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
