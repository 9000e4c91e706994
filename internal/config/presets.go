package config

import "sort"

// Presets are named step profiles applied on top of a loaded config.
var Presets = map[string]StepConfig{
	"default": {
		Hz: 60, VelocityIterations: 8, PositionIterations: 3,
		WarmStarting: true, Continuous: true, AllowSleeping: true, Steps: 600,
	},
	"precise": {
		Hz: 240, VelocityIterations: 20, PositionIterations: 10,
		WarmStarting: true, Continuous: true, SubStepping: true, Steps: 2400,
	},
	"fast": {
		Hz: 30, VelocityIterations: 4, PositionIterations: 2,
		WarmStarting: true, AllowSleeping: true, Steps: 300,
	},
	"slowmo": {
		Hz: 600, VelocityIterations: 8, PositionIterations: 3,
		WarmStarting: true, Continuous: true, AllowSleeping: true, Steps: 6000,
	},
}

func GetPreset(name string) (StepConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ApplyPreset replaces the step section of cfg with the named preset.
func (c *Config) ApplyPreset(name string) bool {
	p, ok := Presets[name]
	if !ok {
		return false
	}
	c.Step = p
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
