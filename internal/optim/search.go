package optim

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

// RunFunc benchmarks one configuration.
type RunFunc func(ctx context.Context, cfg experiment.Config) (bench.Row, error)

// StepSearch looks for the largest step size on Grid whose energy error
// stays within Target.
type StepSearch struct {
	Grid   []float64
	Target float64
}

func NewStepSearch(grid []float64, target float64) *StepSearch {
	return &StepSearch{Grid: grid, Target: target}
}

type Result struct {
	Integrator string
	Dt         float64
	Row        bench.Row
	Found      bool
	Tried      int
}

// Search tries step sizes from largest to smallest and stops at the first
// that meets the target. Solver failures count as misses; cancellation
// aborts the search.
func (s *StepSearch) Search(ctx context.Context, run RunFunc, integrator string) (Result, error) {
	if len(s.Grid) == 0 || !(s.Target > 0) {
		return Result{}, fmt.Errorf("step search needs a grid and a positive target: %w", dynamo.ErrParameterBounds)
	}

	grid := slices.Clone(s.Grid)
	slices.Sort(grid)
	slices.Reverse(grid)

	res := Result{Integrator: integrator}
	for _, dt := range grid {
		res.Tried++
		row, err := run(ctx, experiment.Config{Integrator: integrator, Dt: dt})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return res, err
			}
			logrus.Debugf("%s dt=%g failed: %v", integrator, dt, err)
			continue
		}
		if row.EnergyError <= s.Target {
			res.Dt, res.Row, res.Found = dt, row, true
			return res, nil
		}
	}
	return res, nil
}

// SearchAll runs Search for every integrator in order.
func (s *StepSearch) SearchAll(ctx context.Context, run RunFunc, integrators []string) ([]Result, error) {
	out := make([]Result, 0, len(integrators))
	for _, name := range integrators {
		res, err := s.Search(ctx, run, name)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// BenchmarkRun adapts a runner to a RunFunc over [0, duration].
func BenchmarkRun(r *bench.Runner, duration float64) RunFunc {
	return func(ctx context.Context, cfg experiment.Config) (bench.Row, error) {
		rows, err := r.Benchmark(ctx, duration, []experiment.Config{cfg})
		if err != nil {
			return bench.Row{}, err
		}
		return rows[0], nil
	}
}
