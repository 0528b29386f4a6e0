package analysis

import (
	"errors"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/experiment"
)

var ErrTooFewPoints = errors.New("analysis: need at least two positive points")

// LogLogSlope fits log10(y) = a + b*log10(x) by least squares over the
// pairs where both values are positive and finite, and returns b and a.
func LogLogSlope(xs, ys []float64) (slope, intercept float64, err error) {
	var lx, ly []float64
	for i := range xs {
		if i >= len(ys) || !positive(xs[i]) || !positive(ys[i]) {
			continue
		}
		lx = append(lx, math.Log10(xs[i]))
		ly = append(ly, math.Log10(ys[i]))
	}
	if len(lx) < 2 {
		return 0, 0, ErrTooFewPoints
	}
	if slices.Min(lx) == slices.Max(lx) {
		return 0, 0, ErrTooFewPoints
	}
	intercept, slope = stat.LinearRegression(lx, ly, nil, false)
	return slope, intercept, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Convergence is the fitted energy error slope of one integrator.
type Convergence struct {
	Integrator string
	Kind       experiment.Kind
	Slope      float64
	Points     int
}

// control is the step-control parameter a row was run with.
func control(r bench.Row) float64 {
	if r.Kind == experiment.Adaptive {
		return r.AbsTol
	}
	return r.Dt
}

// Orders fits energy error against step size for fixed-step integrators
// and against absolute tolerance for adaptive ones. Integrators with fewer
// than two usable rows are skipped.
func Orders(table *bench.Table) []Convergence {
	var out []Convergence
	for _, g := range table.Groups() {
		xs := make([]float64, len(g.Rows))
		ys := make([]float64, len(g.Rows))
		for i, r := range g.Rows {
			xs[i] = control(r)
			ys[i] = r.EnergyError
		}
		slope, _, err := LogLogSlope(xs, ys)
		if err != nil {
			continue
		}
		out = append(out, Convergence{
			Integrator: g.Integrator,
			Kind:       g.Rows[0].Kind,
			Slope:      slope,
			Points:     len(g.Rows),
		})
	}
	return out
}

// Violation is a refinement whose energy error exceeded the coarser
// setting's by more than the allowed slack.
type Violation struct {
	Integrator string
	Coarse     bench.Row
	Fine       bench.Row
}

// CheckMonotonic orders each integrator's rows from coarse to fine and
// reports every step where the error grew by more than a factor slack.
// Round-off dominated errors are noisy, so slack is usually a little above 1.
func CheckMonotonic(table *bench.Table, slack float64) []Violation {
	var out []Violation
	for _, g := range table.Groups() {
		rows := slices.Clone(g.Rows)
		slices.SortStableFunc(rows, func(a, b bench.Row) int {
			switch ca, cb := control(a), control(b); {
			case ca > cb:
				return -1
			case ca < cb:
				return 1
			}
			return 0
		})
		for i := 1; i < len(rows); i++ {
			if control(rows[i]) == control(rows[i-1]) {
				continue
			}
			if rows[i].EnergyError > slack*rows[i-1].EnergyError {
				out = append(out, Violation{Integrator: g.Integrator, Coarse: rows[i-1], Fine: rows[i]})
			}
		}
	}
	return out
}

// MeanCosts averages seconds per accepted step for each integrator.
func MeanCosts(table *bench.Table) map[string]float64 {
	out := make(map[string]float64)
	for _, g := range table.Groups() {
		costs := make([]float64, 0, len(g.Rows))
		for _, r := range g.Rows {
			if r.Accepted > 0 {
				costs = append(costs, r.CostPerStep())
			}
		}
		if len(costs) > 0 {
			out[g.Integrator] = stat.Mean(costs, nil)
		}
	}
	return out
}
