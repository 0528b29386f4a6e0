package report

import (
	"math"

	"github.com/san-kum/argonbench/internal/bench"
)

type Point struct {
	X, Y float64
}

// Series is one integrator's points in table order.
type Series struct {
	Name   string
	Points []Point
}

// Chart is a log-log chart with one series per integrator.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

func fromTable(table *bench.Table, title, xLabel, yLabel string, xy func(bench.Row) Point) Chart {
	c := Chart{Title: title, XLabel: xLabel, YLabel: yLabel}
	for _, g := range table.Groups() {
		s := Series{Name: g.Integrator}
		for _, r := range g.Rows {
			s.Points = append(s.Points, xy(r))
		}
		c.Series = append(c.Series, s)
	}
	return c
}

// ErrorVsRuntime plots energy error against wall clock runtime.
func ErrorVsRuntime(table *bench.Table) Chart {
	return fromTable(table, "Energy error vs runtime", "runtime [s]", "|E(T)-E(0)|", func(r bench.Row) Point {
		return Point{X: r.Runtime.Seconds(), Y: r.EnergyError}
	})
}

// RuntimeVsSteps plots wall clock runtime against accepted steps.
func RuntimeVsSteps(table *bench.Table) Chart {
	return fromTable(table, "Runtime vs steps", "accepted steps", "runtime [s]", func(r bench.Row) Point {
		return Point{X: float64(r.Accepted), Y: r.Runtime.Seconds()}
	})
}

// ErrorVsEvaluations plots energy error against force evaluations.
func ErrorVsEvaluations(table *bench.Table) Chart {
	return fromTable(table, "Energy error vs force evaluations", "force evaluations", "|E(T)-E(0)|", func(r bench.Row) Point {
		return Point{X: float64(r.Evaluations), Y: r.EnergyError}
	})
}

func usable(p Point) bool {
	return p.X > 0 && p.Y > 0 && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// logBounds returns whole decades covering every usable point. ok is false
// when there is nothing to plot.
func (c Chart) logBounds() (x0, x1, y0, y1 float64, ok bool) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			if !usable(p) {
				continue
			}
			ok = true
			lx, ly := math.Log10(p.X), math.Log10(p.Y)
			x0, x1 = math.Min(x0, lx), math.Max(x1, lx)
			y0, y1 = math.Min(y0, ly), math.Max(y1, ly)
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	x0, x1 = decades(x0, x1)
	y0, y1 = decades(y0, y1)
	return x0, x1, y0, y1, true
}

func decades(lo, hi float64) (float64, float64) {
	// Log10 of an exact power of ten can land a rounding error outside it
	lo, hi = math.Floor(lo+1e-9), math.Ceil(hi-1e-9)
	if lo == hi {
		lo--
		hi++
	}
	return lo, hi
}
