package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/field"
)

const (
	DefaultField    = "barneshut"
	DefaultScenario = "disk"
	DefaultCount    = 200
	DefaultRadius   = 50.0
	DefaultMass     = 1.0
	DefaultSeed     = 1
	DefaultSteps    = 500
	DefaultEvery    = 10
	DefaultDataDir  = ".gravsim"
)

var (
	ErrSteps = errors.New("config: steps must be positive")
	ErrEvery = errors.New("config: every must be positive")
	ErrCount = errors.New("config: body count must not be negative")
)

type Config struct {
	Field    FieldConfig    `yaml:"field"`
	Scenario ScenarioConfig `yaml:"scenario"`
	Run      RunConfig      `yaml:"run"`
	DataDir  string         `yaml:"data_dir"`
}

type FieldConfig struct {
	Kind      string         `yaml:"kind"`
	G         float64        `yaml:"g"`
	Softening float64        `yaml:"softening"`
	Theta     float64        `yaml:"theta"`
	MaxDepth  int            `yaml:"max_depth"`
	Workers   int            `yaml:"workers"`
	Uniform   *UniformConfig `yaml:"uniform,omitempty"`
}

// UniformConfig adds a constant acceleration on top of gravity.
type UniformConfig struct {
	AX float64 `yaml:"ax"`
	AY float64 `yaml:"ay"`
}

type ScenarioConfig struct {
	Name        string       `yaml:"name"`
	Count       int          `yaml:"count"`
	Seed        int64        `yaml:"seed"`
	Radius      float64      `yaml:"radius"`
	Mass        float64      `yaml:"mass"`
	CentralMass float64      `yaml:"central_mass,omitempty"`
	Bodies      []BodyConfig `yaml:"bodies,omitempty"`
}

type BodyConfig struct {
	Mass float64 `yaml:"mass"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	VX   float64 `yaml:"vx"`
	VY   float64 `yaml:"vy"`
}

type RunConfig struct {
	Steps int `yaml:"steps"`
	// Every is the metrics sampling interval in steps.
	Every int `yaml:"every"`
}

func DefaultConfig() *Config {
	return &Config{
		Field: FieldConfig{
			Kind:      DefaultField,
			G:         field.DefaultG,
			Softening: field.DefaultSoftening,
			Theta:     field.DefaultTheta,
			MaxDepth:  field.DefaultMaxDepth,
			Workers:   field.DefaultWorkers,
		},
		Scenario: ScenarioConfig{
			Name:   DefaultScenario,
			Count:  DefaultCount,
			Seed:   DefaultSeed,
			Radius: DefaultRadius,
			Mass:   DefaultMass,
		},
		Run: RunConfig{
			Steps: DefaultSteps,
			Every: DefaultEvery,
		},
		DataDir: DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FieldParams converts the field section into constructor parameters.
func (c *Config) FieldParams() field.Config {
	return field.Config{
		G:         c.Field.G,
		Softening: c.Field.Softening,
		Theta:     c.Field.Theta,
		MaxDepth:  c.Field.MaxDepth,
		Workers:   c.Field.Workers,
	}
}

// Validate checks the run section and the field parameters. Unknown field
// and scenario names are reported by the registry that resolves them.
func (c *Config) Validate() error {
	if c.Run.Steps <= 0 {
		return fmt.Errorf("%w, got %d", ErrSteps, c.Run.Steps)
	}
	if c.Run.Every <= 0 {
		return fmt.Errorf("%w, got %d", ErrEvery, c.Run.Every)
	}
	if c.Scenario.Count < 0 {
		return fmt.Errorf("%w, got %d", ErrCount, c.Scenario.Count)
	}
	return c.FieldParams().Validate()
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Field.Uniform != nil {
		u := *c.Field.Uniform
		out.Field.Uniform = &u
	}
	if c.Scenario.Bodies != nil {
		out.Scenario.Bodies = append([]BodyConfig(nil), c.Scenario.Bodies...)
	}
	return &out
}
