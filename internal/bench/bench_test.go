package bench_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

// smallArgon is 27 particles at liquid density, small enough for unit tests.
func smallArgon() argon.Parameters {
	p := argon.DefaultParameters()
	p.Particles = 27
	p.Cutoff = 1.5
	return p
}

var _ = Describe("Runner", func() {
	var (
		runner *bench.Runner
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = bench.NewRunner(smallArgon(), experiment.NewRegistry())
		ctx = context.Background()
	})

	Describe("Benchmark", func() {
		It("returns one row per configuration in order", func() {
			configs := []experiment.Config{
				{Integrator: "velocity_verlet", Dt: 0.01},
				{Integrator: "rk4", Dt: 0.01},
				{Integrator: "dopri5", AbsTol: 1e-6, RelTol: 1e-6},
			}
			rows, err := runner.Benchmark(ctx, 0.05, configs)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))

			Expect(rows[0].Integrator).To(Equal("velocity_verlet"))
			Expect(rows[0].Accepted).To(Equal(5))
			Expect(rows[0].Evaluations).To(Equal(6))
			Expect(rows[0].Dt).To(Equal(0.01))

			Expect(rows[1].Evaluations).To(Equal(20))

			Expect(rows[2].KindName).To(Equal("adaptive"))
			Expect(rows[2].AbsTol).To(Equal(1e-6))
			Expect(rows[2].Dt).To(BeZero())

			for _, row := range rows {
				Expect(row.EnergyError).To(BeNumerically(">=", 0))
				Expect(row.Runtime).To(BeNumerically(">", time.Duration(0)))
				Expect(row.NormalizedCost).To(BeNumerically(">", 0))
				Expect(row.Temperature).To(BeNumerically(">", 0))
			}
		})

		It("gives identical step counts for identical configurations", func() {
			cfg := []experiment.Config{{Integrator: "bs3", AbsTol: 1e-7, RelTol: 1e-7}}
			first, err := runner.Benchmark(ctx, 0.05, cfg)
			Expect(err).NotTo(HaveOccurred())
			second, err := runner.Benchmark(ctx, 0.05, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(second[0].Accepted).To(Equal(first[0].Accepted))
			Expect(second[0].Rejected).To(Equal(first[0].Rejected))
			Expect(second[0].Evaluations).To(Equal(first[0].Evaluations))
			Expect(second[0].EnergyError).To(Equal(first[0].EnergyError))
		})

		It("propagates configuration errors", func() {
			_, err := runner.Benchmark(ctx, 0.05, []experiment.Config{{Integrator: "euler", Dt: 0.01}})
			Expect(errors.Is(err, experiment.ErrUnknownIntegrator)).To(BeTrue())
		})

		It("propagates setup errors", func() {
			runner.Params.Cutoff = 10
			_, err := runner.Benchmark(ctx, 0.05, []experiment.Config{{Integrator: "leapfrog", Dt: 0.01}})
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("stops on a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := runner.Benchmark(cancelled, 0.05, []experiment.Config{{Integrator: "leapfrog", Dt: 0.01}})
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		})

		It("divides per-step cost by the multiplier", func() {
			runner.Multipliers["velocity_verlet"] = 2
			rows, err := runner.Benchmark(ctx, 0.05, []experiment.Config{{Integrator: "velocity_verlet", Dt: 0.01}})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].NormalizedCost).To(BeNumerically("~", rows[0].CostPerStep()/2, 1e-15))
		})
	})

	Describe("Sweep", func() {
		It("appends integrators times tuples rows in input order", func() {
			spec := bench.SweepSpec{
				Duration:    0.04,
				Integrators: []string{"leapfrog", "bs3", "ruth3"},
				StepSizes:   []float64{0.02, 0.01},
				Tolerances:  []dynamo.Tolerance{{Abs: 1e-4, Rel: 1e-4}, {Abs: 1e-6, Rel: 1e-6}},
			}
			table, err := runner.Sweep(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			Expect(table.Len()).To(Equal(len(spec.Integrators) * spec.Tuples()))

			rows := table.Rows()
			names := make([]string, len(rows))
			for i, r := range rows {
				names[i] = r.Integrator
			}
			Expect(names).To(Equal([]string{"leapfrog", "bs3", "ruth3", "leapfrog", "bs3", "ruth3"}))
			Expect(rows[3].Dt).To(Equal(0.01))
			Expect(rows[4].AbsTol).To(Equal(1e-6))
			Expect(table.Integrators()).To(Equal(spec.Integrators))
		})

		It("scales step sizes by multipliers", func() {
			spec := bench.SweepSpec{
				Duration:    0.04,
				Integrators: []string{"leapfrog", "yoshida6"},
				StepSizes:   []float64{0.01},
				Multipliers: map[string]float64{"yoshida6": 4},
			}
			table, err := runner.Sweep(ctx, spec)
			Expect(err).NotTo(HaveOccurred())
			rows := table.Rows()
			Expect(rows[0].Dt).To(Equal(0.01))
			Expect(rows[1].Dt).To(Equal(0.04))
			Expect(rows[1].Accepted).To(Equal(1))
		})

		It("rejects mismatched sequences", func() {
			_, err := runner.Sweep(ctx, bench.SweepSpec{
				Duration:    0.04,
				Integrators: []string{"leapfrog"},
				StepSizes:   []float64{0.02, 0.01},
				Tolerances:  []dynamo.Tolerance{{Abs: 1e-4, Rel: 1e-4}},
			})
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("rejects adaptive integrators without tolerances", func() {
			_, err := runner.Sweep(ctx, bench.SweepSpec{
				Duration:    0.04,
				Integrators: []string{"dopri5"},
				StepSizes:   []float64{0.01},
			})
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})
	})

	Describe("CostRatios", func() {
		It("normalizes the baseline to exactly one", func() {
			ratios, err := runner.CostRatios(ctx, 0.05, []string{"leapfrog", "yoshida8"}, 0.01, "velocity_verlet")
			Expect(err).NotTo(HaveOccurred())
			Expect(ratios).To(HaveKeyWithValue("velocity_verlet", 1.0))
			Expect(ratios).To(HaveKey("leapfrog"))
			Expect(ratios["yoshida8"]).To(BeNumerically(">", 0))
		})

		It("rejects adaptive integrators", func() {
			_, err := runner.CostRatios(ctx, 0.05, []string{"dopri5"}, 0.01, "leapfrog")
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})
	})

	Describe("History", func() {
		It("records the energy error at each saved step", func() {
			row, points, err := runner.History(ctx, 0.05, experiment.Config{Integrator: "velocity_verlet", Dt: 0.01})
			Expect(err).NotTo(HaveOccurred())
			Expect(points).To(HaveLen(6))
			Expect(points[0].Error).To(BeZero())
			Expect(points[5].T).To(BeNumerically("~", 0.05, 1e-12))
			Expect(points[5].Error).To(Equal(row.EnergyError))
		})
	})
})

var _ = Describe("ScaleGrid", func() {
	It("multiplies each step size", func() {
		a, b := 0.1, 0.2
		Expect(bench.ScaleGrid([]float64{a, b}, 3)).To(Equal([]float64{a * 3, b * 3}))
	})

	It("leaves the input untouched", func() {
		grid := []float64{0.1}
		bench.ScaleGrid(grid, 2)
		Expect(grid[0]).To(Equal(0.1))
	})
})

var _ = Describe("Table", func() {
	It("groups rows by first appearance", func() {
		table := bench.NewTable(
			bench.Row{Integrator: "b", Dt: 1},
			bench.Row{Integrator: "a", Dt: 1},
			bench.Row{Integrator: "b", Dt: 2},
		)
		groups := table.Groups()
		Expect(groups).To(HaveLen(2))
		Expect(groups[0].Integrator).To(Equal("b"))
		Expect(groups[0].Rows).To(HaveLen(2))
		Expect(groups[0].Rows[1].Dt).To(Equal(2.0))
		Expect(table.Integrators()).To(Equal([]string{"b", "a"}))
	})
})
