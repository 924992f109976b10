package config

import "sort"

func preset(scenario string, count int, radius, central float64, steps int) *Config {
	cfg := DefaultConfig()
	cfg.Scenario.Name = scenario
	cfg.Scenario.Count = count
	cfg.Scenario.Radius = radius
	cfg.Scenario.CentralMass = central
	cfg.Run.Steps = steps
	return cfg
}

var Presets = map[string]map[string]*Config{
	"pair": {
		"touch": preset("pair", 2, 1, 0, 1),
	},
	"binary": {
		"tight": preset("binary", 2, 2, 0, 2000),
		"wide":  preset("binary", 2, 20, 0, 5000),
	},
	"disk": {
		"small":  preset("disk", 100, 30, 50, 1000),
		"galaxy": preset("disk", 2000, 200, 500, 2000),
	},
	"cluster": {
		"cold":  preset("cluster", 300, 40, 0, 1000),
		"dense": preset("cluster", 1000, 10, 0, 500),
	},
	"grid": {
		"lattice": preset("grid", 64, 20, 0, 800),
	},
}

func GetPreset(scenario, name string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
