package dynamo

import (
	"context"
	"fmt"
	"math"
)

const (
	safety   = 0.9
	minScale = 0.2
	maxScale = 10.0
)

// Simulator drives one integrator over a Problem.
type Simulator struct {
	integrator Integrator
}

func New(integrator Integrator) *Simulator {
	return &Simulator{integrator: integrator}
}

// countingSystem counts right-hand-side evaluations; for the force models
// used here one evaluation is one force computation.
type countingSystem struct {
	System
	n int
}

func (c *countingSystem) Derive(x State, t float64) State {
	c.n++
	return c.System.Derive(x, t)
}

// Solve integrates p with the simulator's integrator. Fixed-step unless
// opts.Adaptive is set, in which case the integrator must implement
// AdaptiveIntegrator.
func (s *Simulator) Solve(ctx context.Context, p *Problem, opts Options) (*Solution, error) {
	if err := s.validate(p, opts); err != nil {
		return nil, err
	}
	if r, ok := s.integrator.(Resetter); ok {
		r.Reset()
	}

	sys := &countingSystem{System: p.System}
	var (
		sol *Solution
		err error
	)
	if opts.Adaptive {
		adaptive, ok := s.integrator.(AdaptiveIntegrator)
		if !ok {
			return nil, fmt.Errorf("%s: %w", s.integrator.Name(), ErrNotAdaptive)
		}
		sol, err = s.solveAdaptive(ctx, sys, adaptive, p, opts)
	} else {
		sol, err = s.solveFixed(ctx, sys, p, opts)
	}
	if sol != nil {
		sol.Evaluations = sys.n
	}
	return sol, err
}

func (s *Simulator) validate(p *Problem, opts Options) error {
	if p == nil || p.System == nil {
		return fmt.Errorf("problem has no system")
	}
	if len(p.X0) != p.System.StateDim() {
		return fmt.Errorf("x0 has %d entries, system wants %d: %w", len(p.X0), p.System.StateDim(), ErrDimensionMismatch)
	}
	if p.TEnd <= p.T0 {
		return fmt.Errorf("time span [%g, %g] is empty: %w", p.T0, p.TEnd, ErrParameterBounds)
	}
	if opts.Adaptive {
		if opts.Tolerance.Abs <= 0 && opts.Tolerance.Rel <= 0 {
			return fmt.Errorf("tolerance must be positive for adaptive stepping: %w", ErrParameterBounds)
		}
		if opts.Tolerance.Abs < 0 || opts.Tolerance.Rel < 0 {
			return fmt.Errorf("negative tolerance %v: %w", opts.Tolerance, ErrParameterBounds)
		}
		return nil
	}
	if !(opts.Dt > 0) || math.IsInf(opts.Dt, 1) {
		return fmt.Errorf("dt must be positive and finite, got %g: %w", opts.Dt, ErrParameterBounds)
	}
	return nil
}

func (s *Simulator) newSolution(p *Problem) *Solution {
	sol := &Solution{Integrator: s.integrator.Name()}
	sol.States = append(sol.States, p.X0.Clone())
	sol.Times = append(sol.Times, p.T0)
	return sol
}

func (s *Simulator) solveFixed(ctx context.Context, sys *countingSystem, p *Problem, opts Options) (*Solution, error) {
	sol := s.newSolution(p)
	span := p.TEnd - p.T0
	// counted in float64 first: a tiny dt overflows int
	n := math.Ceil(span/opts.Dt - 1e-9)
	limit := float64(math.MaxInt)
	if opts.MaxSteps > 0 {
		limit = float64(opts.MaxSteps)
	}
	if n > limit {
		return nil, fmt.Errorf("%g steps of dt=%g: %w", n, opts.Dt, ErrMaxSteps)
	}
	steps := max(int(n), 1)

	x := p.X0.Clone()
	t := p.T0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}

		h := opts.Dt
		if i == steps-1 {
			h = p.TEnd - t
		}
		next := s.integrator.Step(sys, x, t, h)
		if opts.ValidateState && !next.IsValid() {
			return sol, &SimulationError{Integrator: sol.Integrator, Step: i, Time: t, Dt: h, Wrapped: ErrInvalidState}
		}

		x = next
		sol.StepsTaken++
		sol.LastDt = h
		if i == steps-1 {
			t = p.TEnd
		} else {
			t = p.T0 + float64(i+1)*opts.Dt
		}
		s.save(sol, x, t, i == steps-1, opts)
	}
	return sol, nil
}

func (s *Simulator) solveAdaptive(ctx context.Context, sys *countingSystem, integ AdaptiveIntegrator, p *Problem, opts Options) (*Solution, error) {
	sol := s.newSolution(p)
	x := p.X0.Clone()
	t := p.T0
	tol := opts.Tolerance

	dt := opts.Dt
	if dt <= 0 {
		dt = InitialStep(sys, x, t, integ.Order(), tol)
	}
	exponent := -1.0 / float64(integ.Order()+1)

	for t < p.TEnd {
		select {
		case <-ctx.Done():
			return sol, ctx.Err()
		default:
		}
		if opts.MaxSteps > 0 && sol.StepsTaken+sol.Rejected >= opts.MaxSteps {
			return sol, &SimulationError{Integrator: sol.Integrator, Step: sol.StepsTaken, Time: t, Dt: dt, Wrapped: ErrMaxSteps}
		}

		h := dt
		last := false
		if t+h >= p.TEnd {
			h = p.TEnd - t
			last = true
		}

		next, errEst := integ.Attempt(sys, x, t, h)
		errNorm := ErrorNorm(errEst, x, next, tol)

		var factor float64
		switch {
		case math.IsNaN(errNorm) || math.IsInf(errNorm, 0):
			factor = minScale
			errNorm = math.Inf(1)
		case errNorm == 0:
			factor = maxScale
		default:
			factor = math.Min(maxScale, math.Max(minScale, safety*math.Pow(errNorm, exponent)))
		}

		if errNorm <= 1 {
			x = next
			if last {
				t = p.TEnd
			} else {
				t += h
			}
			sol.StepsTaken++
			sol.LastDt = h
			s.save(sol, x, t, last, opts)
		} else {
			sol.Rejected++
			factor = math.Min(factor, 1)
		}

		dt = h * factor
		if last && errNorm <= 1 {
			break
		}
		if opts.MaxDt > 0 && dt > opts.MaxDt {
			dt = opts.MaxDt
		}
		if dt < opts.MinDt || dt <= 0 {
			return sol, &SimulationError{Integrator: sol.Integrator, Step: sol.StepsTaken, Time: t, Dt: dt, Wrapped: ErrStepTooSmall}
		}
	}
	return sol, nil
}

func (s *Simulator) save(sol *Solution, x State, t float64, final bool, opts Options) {
	if final || (opts.SaveEvery > 0 && sol.StepsTaken%opts.SaveEvery == 0) {
		sol.States = append(sol.States, x.Clone())
		sol.Times = append(sol.Times, t)
	}
}

// ErrorNorm is the RMS of the error estimate scaled componentwise by
// abs + rel*max(|x|, |next|). A step is acceptable when it is <= 1.
func ErrorNorm(errEst, x, next State, tol Tolerance) float64 {
	if len(errEst) == 0 {
		return 0
	}
	sum := 0.0
	for i, e := range errEst {
		sc := tol.Abs + tol.Rel*math.Max(math.Abs(x[i]), math.Abs(next[i]))
		r := e / sc
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(errEst)))
}

// InitialStep guesses a first step size for an adaptive method of the given
// order from the local scale of the solution and its derivative.
func InitialStep(sys System, x0 State, t0 float64, order int, tol Tolerance) float64 {
	n := float64(len(x0))
	f0 := sys.Derive(x0, t0)

	d0, d1 := 0.0, 0.0
	for i := range x0 {
		sc := tol.Abs + tol.Rel*math.Abs(x0[i])
		d0 += (x0[i] / sc) * (x0[i] / sc)
		d1 += (f0[i] / sc) * (f0[i] / sc)
	}
	d0, d1 = math.Sqrt(d0/n), math.Sqrt(d1/n)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}

	x1 := x0.Clone()
	for i := range x1 {
		x1[i] += h0 * f0[i]
	}
	f1 := sys.Derive(x1, t0+h0)

	d2 := 0.0
	for i := range x0 {
		sc := tol.Abs + tol.Rel*math.Abs(x0[i])
		r := (f1[i] - f0[i]) / sc
		d2 += r * r
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if m := math.Max(d1, d2); m <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/m, 1.0/float64(order+1))
	}
	return math.Min(100*h0, h1)
}
