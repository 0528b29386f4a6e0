package config

import (
	"slices"

	"github.com/san-kum/argonbench/internal/dynamo"
)

var symplecticAll = []string{"velocity_verlet", "leapfrog", "ruth3", "forest_ruth4", "yoshida6", "yoshida8"}

var Presets = map[string]*Suite{
	"quick": {
		Name:        "quick",
		Duration:    0.5,
		Integrators: []string{"velocity_verlet", "leapfrog", "dopri5"},
		StepSizes:   []float64{0.02, 0.01},
		Tolerances:  []dynamo.Tolerance{{Abs: 1e-4, Rel: 1e-4}, {Abs: 1e-6, Rel: 1e-6}},
	},
	"symplectic": {
		Name:        "symplectic",
		Duration:    2.0,
		Integrators: symplecticAll,
		StepSizes:   []float64{0.02, 0.01, 0.005, 0.0025},
		Cost:        CostConfig{Normalize: true, Baseline: "velocity_verlet", Warmup: DefaultWarmup, Dt: DefaultCostDt},
	},
	"adaptive": {
		Name:        "adaptive",
		Duration:    2.0,
		Integrators: []string{"rk4", "dopri5", "bs3"},
		StepSizes:   []float64{0.02, 0.01, 0.005},
		Tolerances:  []dynamo.Tolerance{{Abs: 1e-4, Rel: 1e-4}, {Abs: 1e-6, Rel: 1e-6}, {Abs: 1e-8, Rel: 1e-8}},
	},
	"full": {
		Name:        "full",
		Duration:    5.0,
		Integrators: append(slices.Clone(symplecticAll), "rk4", "dopri5", "bs3"),
		StepSizes:   []float64{0.02, 0.01, 0.005, 0.0025},
		Tolerances: []dynamo.Tolerance{
			{Abs: 1e-4, Rel: 1e-4}, {Abs: 1e-6, Rel: 1e-6},
			{Abs: 1e-8, Rel: 1e-8}, {Abs: 1e-10, Rel: 1e-10},
		},
		Cost: CostConfig{Normalize: true, Baseline: "velocity_verlet", Warmup: DefaultWarmup, Dt: DefaultCostDt},
	},
}

// GetPreset returns a copy of the named preset with unset sections filled
// from DefaultSuite, or nil.
func GetPreset(name string) *Suite {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	s := DefaultSuite()
	s.Name = p.Name
	s.Duration = p.Duration
	s.Integrators = slices.Clone(p.Integrators)
	s.StepSizes = slices.Clone(p.StepSizes)
	s.Tolerances = slices.Clone(p.Tolerances)
	if p.Cost.Baseline != "" {
		s.Cost = p.Cost
	}
	s.History.Duration = p.Duration
	return s
}

// ListPresets returns preset names sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
