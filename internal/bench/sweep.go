package bench

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

// SweepSpec describes a sweep over parallel parameter sequences. Tuple i
// uses StepSizes[i] for symplectic and fixed-step integrators and
// Tolerances[i] for adaptive ones; when both are given they must have the
// same length. A step size is multiplied by the integrator's entry in
// Multipliers (default 1).
type SweepSpec struct {
	Duration    float64
	Integrators []string
	StepSizes   []float64
	Tolerances  []dynamo.Tolerance
	Multipliers map[string]float64
}

// Tuples is the number of parameter tuples the sweep iterates.
func (s SweepSpec) Tuples() int {
	return max(len(s.StepSizes), len(s.Tolerances))
}

func (s SweepSpec) Validate(reg *experiment.Registry) error {
	if len(s.Integrators) == 0 {
		return fmt.Errorf("sweep has no integrators: %w", dynamo.ErrParameterBounds)
	}
	if len(s.StepSizes) > 0 && len(s.Tolerances) > 0 && len(s.StepSizes) != len(s.Tolerances) {
		return fmt.Errorf("%d step sizes but %d tolerances: %w", len(s.StepSizes), len(s.Tolerances), dynamo.ErrDimensionMismatch)
	}
	for _, name := range s.Integrators {
		kind, err := reg.Kind(name)
		if err != nil {
			return err
		}
		if kind == experiment.Adaptive && len(s.Tolerances) == 0 {
			return fmt.Errorf("%s needs tolerances: %w", name, dynamo.ErrParameterBounds)
		}
		if kind != experiment.Adaptive && len(s.StepSizes) == 0 {
			return fmt.Errorf("%s needs step sizes: %w", name, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

func (s SweepSpec) config(kind experiment.Kind, name string, i int) experiment.Config {
	cfg := experiment.Config{Integrator: name}
	if kind == experiment.Adaptive {
		cfg.AbsTol, cfg.RelTol = s.Tolerances[i].Abs, s.Tolerances[i].Rel
		return cfg
	}
	m := 1.0
	if v, ok := s.Multipliers[name]; ok && v > 0 {
		m = v
	}
	cfg.Dt = s.StepSizes[i] * m
	return cfg
}

// Sweep invokes Benchmark once per tuple and appends one row per
// integrator, in input order. Rows gathered before an error are returned
// with it.
func (r *Runner) Sweep(ctx context.Context, spec SweepSpec) (*Table, error) {
	if err := spec.Validate(r.Registry); err != nil {
		return nil, err
	}

	table := NewTable()
	n := spec.Tuples()
	for i := 0; i < n; i++ {
		configs := make([]experiment.Config, 0, len(spec.Integrators))
		for _, name := range spec.Integrators {
			kind, _ := r.Registry.Kind(name)
			configs = append(configs, spec.config(kind, name, i))
		}

		logrus.Infof("sweep %d/%d: %d integrators", i+1, n, len(configs))
		rows, err := r.Benchmark(ctx, spec.Duration, configs)
		table.Append(rows...)
		if err != nil {
			return table, fmt.Errorf("sweep tuple %d: %w", i, err)
		}
	}
	return table, nil
}
