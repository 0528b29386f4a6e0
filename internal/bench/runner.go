package bench

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
	"github.com/san-kum/argonbench/internal/metrics"
)

// Runner solves freshly built argon problems and measures each solve.
type Runner struct {
	Params   argon.Parameters
	Registry *experiment.Registry

	// Multipliers are per-integrator cost multipliers from CostRatios.
	// NormalizedCost divides the per-step cost by them; missing entries
	// count as 1.
	Multipliers map[string]float64
}

func NewRunner(params argon.Parameters, reg *experiment.Registry) *Runner {
	return &Runner{
		Params:      params,
		Registry:    reg,
		Multipliers: make(map[string]float64),
	}
}

func (r *Runner) multiplier(name string) float64 {
	if m, ok := r.Multipliers[name]; ok && m > 0 {
		return m
	}
	return 1
}

// resetMemory collects garbage and returns freed pages to the OS so one
// batch does not pay for the previous batch's garbage.
func resetMemory() {
	runtime.GC()
	debug.FreeOSMemory()
}

// Benchmark runs every configuration once, in order, on a freshly built
// problem over [0, duration]. The energy error of a row is
// |E(duration) - E(0)|, evaluated after the timed solve. The first solver
// error aborts the batch.
func (r *Runner) Benchmark(ctx context.Context, duration float64, configs []experiment.Config) ([]Row, error) {
	resetMemory()

	rows := make([]Row, 0, len(configs))
	for _, cfg := range configs {
		row, _, err := r.run(ctx, duration, cfg, nil)
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// History runs one configuration saving every saveEvery accepted steps and
// returns |E(t) - E(0)| at each saved time.
func (r *Runner) History(ctx context.Context, duration float64, cfg experiment.Config) (Row, []metrics.Point, error) {
	if cfg.SaveEvery <= 0 {
		cfg.SaveEvery = 1
	}
	resetMemory()

	var history *metrics.EnergyHistory
	row, _, err := r.run(ctx, duration, cfg, func(lj dynamo.Hamiltonian) dynamo.Metric {
		history = metrics.NewEnergyHistory(lj)
		return history
	})
	if err != nil {
		return row, nil, err
	}
	return row, history.Points(), nil
}

func (r *Runner) run(ctx context.Context, duration float64, cfg experiment.Config, extra func(dynamo.Hamiltonian) dynamo.Metric) (Row, *dynamo.Solution, error) {
	p, lj, err := argon.Setup(r.Params, duration)
	if err != nil {
		return Row{}, nil, err
	}
	exp, err := experiment.New(r.Registry, cfg)
	if err != nil {
		return Row{}, nil, err
	}
	drift := metrics.NewEnergyDrift(lj)
	temperature := metrics.NewTemperature(lj)
	exp.AddMetric(drift)
	exp.AddMetric(temperature)
	if extra != nil {
		exp.AddMetric(extra(lj))
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	sol, err := exp.Solve(ctx, p)
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	if err != nil {
		return Row{}, sol, fmt.Errorf("benchmark: %w", err)
	}
	exp.Observe(sol)

	row := Row{
		Integrator:  cfg.Integrator,
		Kind:        exp.Kind(),
		KindName:    exp.Kind().String(),
		Runtime:     elapsed,
		AllocBytes:  after.TotalAlloc - before.TotalAlloc,
		EnergyError: drift.Value(),
		Accepted:    sol.StepsTaken,
		Rejected:    sol.Rejected,
		Evaluations: sol.Evaluations,
		Temperature: temperature.Last(),
	}
	if exp.Kind() == experiment.Adaptive {
		row.AbsTol, row.RelTol = cfg.AbsTol, cfg.RelTol
	} else {
		row.Dt = cfg.Dt
	}
	row.NormalizedCost = row.CostPerStep() / r.multiplier(cfg.Integrator)

	logrus.Debugf("%s: %d steps (%d rejected), %d evals, %v, energy error %.3e",
		cfg, row.Accepted, row.Rejected, row.Evaluations, elapsed, row.EnergyError)
	return row, sol, nil
}
