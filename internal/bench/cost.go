package bench

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

// CostRatios runs a short warm-up of each integrator at step size dt and
// returns its per-step wall clock cost relative to baseline. The baseline's
// ratio is exactly 1. Adaptive integrators have no fixed per-step cost and
// are rejected.
func (r *Runner) CostRatios(ctx context.Context, warmup float64, integrators []string, dt float64, baseline string) (map[string]float64, error) {
	names := slices.Clone(integrators)
	if !slices.Contains(names, baseline) {
		names = append([]string{baseline}, names...)
	}

	configs := make([]experiment.Config, 0, len(names))
	for _, name := range names {
		kind, err := r.Registry.Kind(name)
		if err != nil {
			return nil, err
		}
		if kind == experiment.Adaptive {
			return nil, fmt.Errorf("cost ratio of adaptive %s: %w", name, dynamo.ErrParameterBounds)
		}
		configs = append(configs, experiment.Config{Integrator: name, Dt: dt})
	}

	rows, err := r.Benchmark(ctx, warmup, configs)
	if err != nil {
		return nil, fmt.Errorf("cost warm-up: %w", err)
	}

	var base float64
	for _, row := range rows {
		if row.Integrator == baseline {
			base = row.CostPerStep()
		}
	}
	if base <= 0 {
		return nil, fmt.Errorf("baseline %s measured no cost: %w", baseline, dynamo.ErrParameterBounds)
	}

	ratios := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratios[row.Integrator] = row.CostPerStep() / base
		logrus.Infof("cost %s: %.3g s/step, ratio %.2f", row.Integrator, row.CostPerStep(), ratios[row.Integrator])
	}
	ratios[baseline] = 1
	return ratios, nil
}

// ScaleGrid multiplies every step size by ratio, so an integrator that costs
// k times the baseline per step is run at k times the step size.
func ScaleGrid(grid []float64, ratio float64) []float64 {
	out := make([]float64, len(grid))
	for i, dt := range grid {
		out[i] = dt * ratio
	}
	return out
}
