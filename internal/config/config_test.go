package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravsim/internal/field"
	"github.com/san-kum/gravsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Field.Kind != "barneshut" {
		t.Errorf("expected field barneshut, got %s", cfg.Field.Kind)
	}
	if cfg.Field.Theta != 0.5 {
		t.Errorf("expected theta 0.5, got %v", cfg.Field.Theta)
	}
	if cfg.Field.Softening != 1e-2 {
		t.Errorf("expected softening 1e-2, got %v", cfg.Field.Softening)
	}
	if cfg.Run.Steps <= 0 {
		t.Error("steps should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero steps", func(c *Config) { c.Run.Steps = 0 }, ErrSteps},
		{"zero every", func(c *Config) { c.Run.Every = 0 }, ErrEvery},
		{"negative count", func(c *Config) { c.Scenario.Count = -1 }, ErrCount},
		{"zero theta", func(c *Config) { c.Field.Theta = 0 }, field.ErrInvalidTheta},
		{"negative softening", func(c *Config) { c.Field.Softening = -1 }, field.ErrInvalidSoftening},
		{"zero depth", func(c *Config) { c.Field.MaxDepth = 0 }, field.ErrInvalidDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestThetaIsPrecondition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Field.Theta = -1
	if err := cfg.Validate(); !errors.Is(err, physics.ErrPrecondition) {
		t.Errorf("expected precondition violation, got %v", err)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")

	cfg := DefaultConfig()
	cfg.Field.Kind = "bruteforce"
	cfg.Field.Uniform = &UniformConfig{AY: -0.1}
	cfg.Scenario.Name = "explicit"
	cfg.Scenario.Bodies = []BodyConfig{
		{Mass: 1, X: 0, Y: 0},
		{Mass: 2, X: 1, Y: 0, VY: 0.5},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Field.Kind != "bruteforce" {
		t.Errorf("kind = %s", loaded.Field.Kind)
	}
	if loaded.Field.Uniform == nil || loaded.Field.Uniform.AY != -0.1 {
		t.Errorf("uniform = %+v", loaded.Field.Uniform)
	}
	if len(loaded.Scenario.Bodies) != 2 || loaded.Scenario.Bodies[1].VY != 0.5 {
		t.Errorf("bodies = %+v", loaded.Scenario.Bodies)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "field:\n  theta: 0.8\nrun:\n  steps: 42\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Field.Theta != 0.8 || cfg.Run.Steps != 42 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Field.Kind != DefaultField || cfg.Field.MaxDepth != field.DefaultMaxDepth {
		t.Errorf("defaults lost: %+v", cfg.Field)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("field: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary", "tight")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Scenario.Radius != 2 {
		t.Errorf("expected radius 2, got %f", cfg.Scenario.Radius)
	}

	cfg.Scenario.Radius = 99
	if GetPreset("binary", "tight").Scenario.Radius != 2 {
		t.Error("preset was mutated through returned config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("binary", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "tight") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("disk")
	if len(presets) != 2 || presets[0] != "galaxy" {
		t.Errorf("unexpected disk presets %v", presets)
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}
