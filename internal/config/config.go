package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

const (
	DefaultDuration   = 1.0
	DefaultBaseline   = "velocity_verlet"
	DefaultWarmup     = 0.1
	DefaultCostDt     = 0.01
	DefaultHistoryDt  = 0.01
	DefaultSaveEvery  = 10
	DefaultIntegrator = "velocity_verlet"
)

// Suite is one benchmark description: the argon system, the sweep and the
// optional cost normalization and energy history runs.
type Suite struct {
	Name        string             `yaml:"name"`
	Duration    float64            `yaml:"duration"`
	Argon       argon.Parameters   `yaml:"argon"`
	Integrators []string           `yaml:"integrators"`
	StepSizes   []float64          `yaml:"step_sizes"`
	Tolerances  []dynamo.Tolerance `yaml:"tolerances"`
	Cost        CostConfig         `yaml:"cost"`
	History     HistoryConfig      `yaml:"history"`
}

// CostConfig enables scaling step sizes by per-step cost relative to
// Baseline before the sweep.
type CostConfig struct {
	Normalize bool    `yaml:"normalize"`
	Baseline  string  `yaml:"baseline"`
	Warmup    float64 `yaml:"warmup"`
	Dt        float64 `yaml:"dt"`
}

type HistoryConfig struct {
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	SaveEvery  int     `yaml:"save_every"`
}

func DefaultSuite() *Suite {
	return &Suite{
		Name:        "default",
		Duration:    DefaultDuration,
		Argon:       argon.DefaultParameters(),
		Integrators: []string{"velocity_verlet", "yoshida6", "dopri5"},
		StepSizes:   []float64{0.02, 0.01, 0.005},
		Tolerances:  []dynamo.Tolerance{{Abs: 1e-4, Rel: 1e-4}, {Abs: 1e-6, Rel: 1e-6}, {Abs: 1e-8, Rel: 1e-8}},
		Cost: CostConfig{
			Baseline: DefaultBaseline,
			Warmup:   DefaultWarmup,
			Dt:       DefaultCostDt,
		},
		History: HistoryConfig{
			Integrator: DefaultIntegrator,
			Dt:         DefaultHistoryDt,
			Duration:   DefaultDuration,
			SaveEvery:  DefaultSaveEvery,
		},
	}
}

// Load reads a suite file on top of DefaultSuite, so omitted fields keep
// their defaults.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := DefaultSuite()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

func Save(path string, s *Suite) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the suite against the integrators in reg.
func (s *Suite) Validate(reg *experiment.Registry) error {
	if err := s.Argon.Validate(); err != nil {
		return err
	}
	if s.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g: %w", s.Duration, dynamo.ErrParameterBounds)
	}
	for _, dt := range s.StepSizes {
		if dt <= 0 {
			return fmt.Errorf("step size %g: %w", dt, dynamo.ErrParameterBounds)
		}
	}
	for _, tol := range s.Tolerances {
		if tol.Abs < 0 || tol.Rel < 0 || (tol.Abs == 0 && tol.Rel == 0) {
			return fmt.Errorf("tolerance %v: %w", tol, dynamo.ErrParameterBounds)
		}
	}
	if s.Cost.Normalize {
		if _, err := reg.Kind(s.Cost.Baseline); err != nil {
			return fmt.Errorf("cost baseline: %w", err)
		}
	}
	return s.Sweep(nil).Validate(reg)
}

// Sweep converts the suite into a sweep, scaling step sizes by multipliers
// when given.
func (s *Suite) Sweep(multipliers map[string]float64) bench.SweepSpec {
	return bench.SweepSpec{
		Duration:    s.Duration,
		Integrators: s.Integrators,
		StepSizes:   s.StepSizes,
		Tolerances:  s.Tolerances,
		Multipliers: multipliers,
	}
}

// HistoryExperiment is the configuration of the energy history run.
func (s *Suite) HistoryExperiment() experiment.Config {
	return experiment.Config{
		Integrator: s.History.Integrator,
		Dt:         s.History.Dt,
		SaveEvery:  s.History.SaveEvery,
	}
}
