package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/experiment"
)

func TestLogLogSlope(t *testing.T) {
	xs := []float64{0.1, 0.05, 0.025, 0.0125}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3 * math.Pow(x, 4)
	}

	slope, intercept, err := LogLogSlope(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 4, slope, 1e-9)
	assert.InDelta(t, math.Log10(3), intercept, 1e-9)
}

func TestLogLogSlope_SkipsUnusablePoints(t *testing.T) {
	slope, _, err := LogLogSlope(
		[]float64{1, 2, 4, 8},
		[]float64{1, 0, math.NaN(), 64},
	)
	require.NoError(t, err)
	assert.InDelta(t, 2, slope, 1e-9)

	_, _, err = LogLogSlope([]float64{1, 2}, []float64{0, 1})
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, _, err = LogLogSlope([]float64{1, 1}, []float64{2, 3})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func verletRows(errs ...float64) []bench.Row {
	rows := make([]bench.Row, len(errs))
	dt := 0.1
	for i, e := range errs {
		rows[i] = bench.Row{Integrator: "velocity_verlet", Kind: experiment.Symplectic, Dt: dt, EnergyError: e}
		dt /= 2
	}
	return rows
}

func TestOrders(t *testing.T) {
	table := bench.NewTable(verletRows(1e-2, 2.5e-3, 6.25e-4)...)
	table.Append(
		bench.Row{Integrator: "dopri5", Kind: experiment.Adaptive, AbsTol: 1e-4, EnergyError: 1e-3},
		bench.Row{Integrator: "dopri5", Kind: experiment.Adaptive, AbsTol: 1e-6, EnergyError: 1e-5},
		bench.Row{Integrator: "rk4", Kind: experiment.Fixed, Dt: 0.1, EnergyError: 1e-3},
	)

	orders := Orders(table)
	require.Len(t, orders, 2)
	assert.Equal(t, "velocity_verlet", orders[0].Integrator)
	assert.InDelta(t, 2, orders[0].Slope, 1e-9)
	assert.Equal(t, 3, orders[0].Points)
	assert.Equal(t, experiment.Adaptive, orders[1].Kind)
	assert.InDelta(t, 1, orders[1].Slope, 1e-9)
}

func TestCheckMonotonic(t *testing.T) {
	table := bench.NewTable(verletRows(1e-2, 2e-3, 5e-3, 1e-4)...)

	violations := CheckMonotonic(table, 1.1)
	require.Len(t, violations, 1)
	assert.Equal(t, 0.025, violations[0].Fine.Dt)
	assert.Equal(t, 0.05, violations[0].Coarse.Dt)

	assert.Empty(t, CheckMonotonic(table, 3))
}

func TestCheckMonotonic_OrderIndependent(t *testing.T) {
	rows := verletRows(1e-2, 2e-3, 1e-4)
	table := bench.NewTable(rows[2], rows[0], rows[1])
	assert.Empty(t, CheckMonotonic(table, 1))
}

func TestMeanCosts(t *testing.T) {
	table := bench.NewTable(
		bench.Row{Integrator: "leapfrog", Runtime: 2 * time.Second, Accepted: 4},
		bench.Row{Integrator: "leapfrog", Runtime: time.Second, Accepted: 1},
		bench.Row{Integrator: "rk4", Runtime: time.Second},
	)

	costs := MeanCosts(table)
	assert.InDelta(t, 0.75, costs["leapfrog"], 1e-12)
	assert.NotContains(t, costs, "rk4")
}
