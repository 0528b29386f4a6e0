package dynamo

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the solver, integrators and parameter checks.
var (
	// ErrInvalidState: a component of the state became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds wraps every rejected configuration value.
	ErrParameterBounds = errors.New("dynamo: parameter out of range")

	// ErrStepTooSmall: the controller asked for a step below Options.MinDt.
	ErrStepTooSmall = errors.New("dynamo: step size fell below the minimum")

	// ErrMaxSteps indicates the step budget ran out before the end time.
	ErrMaxSteps = errors.New("dynamo: maximum step count exceeded")

	ErrDimensionMismatch = errors.New("dynamo: state length does not match system")

	// ErrNotAdaptive indicates adaptive stepping was requested from a fixed-step integrator.
	ErrNotAdaptive = errors.New("dynamo: integrator has no error estimate")
)

// SimulationError records where in a solve an error happened.
type SimulationError struct {
	Integrator string
	Step       int
	Time       float64
	Dt         float64
	Wrapped    error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("%s: step %d (t=%.4f, dt=%.3e): %v", e.Integrator, e.Step, e.Time, e.Dt, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
