package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is a flat phase-space vector. Second-order systems lay it out as
// positions followed by velocities, each half of length StateDim()/2.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

// Positions returns the first half of a second-order state without copying.
func (s State) Positions() State { return s[:len(s)/2] }

// Velocities returns the second half of a second-order state without copying.
func (s State) Velocities() State { return s[len(s)/2:] }

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian systems expose their total energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Name() string
	Step(dyn System, x State, t, dt float64) State
}

// AdaptiveIntegrator produces a candidate step together with an embedded
// local error estimate. Step size control lives in the Simulator.
type AdaptiveIntegrator interface {
	Integrator
	Order() int
	Attempt(dyn System, x State, t, dt float64) (next State, errEst State)
}

// Resetter is implemented by integrators that cache work between steps.
type Resetter interface {
	Reset()
}

// Metric observes saved states of a finished solution.
type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

// Tolerance is the (absolute, relative) pair used by adaptive stepping.
type Tolerance struct {
	Abs float64 `json:"abstol" yaml:"abstol"`
	Rel float64 `json:"reltol" yaml:"reltol"`
}

func (tol Tolerance) String() string {
	return fmt.Sprintf("abstol=%.1e reltol=%.1e", tol.Abs, tol.Rel)
}

// Problem is a system plus initial state over a time span.
type Problem struct {
	System System
	X0     State
	T0     float64
	TEnd   float64
}

func NewProblem(sys System, x0 State, t0, tEnd float64) *Problem {
	return &Problem{System: sys, X0: x0.Clone(), T0: t0, TEnd: tEnd}
}

type Options struct {
	Dt        float64
	Tolerance Tolerance
	Adaptive  bool
	MinDt     float64
	MaxDt     float64
	MaxSteps  int
	// SaveEvery keeps every n-th accepted state; 0 keeps only the endpoints.
	SaveEvery     int
	ValidateState bool
}

func DefaultOptions() Options {
	return Options{
		Dt:            0.01,
		Tolerance:     Tolerance{Abs: 1e-6, Rel: 1e-6},
		MinDt:         1e-12,
		MaxSteps:      10_000_000,
		SaveEvery:     1,
		ValidateState: true,
	}
}

// Solution is what a solve returns: saved trajectory plus step statistics.
type Solution struct {
	Integrator  string
	Times       []float64
	States      []State
	StepsTaken  int
	Rejected    int
	Evaluations int
	LastDt      float64
}

func (s *Solution) First() (State, float64) {
	return s.States[0], s.Times[0]
}

func (s *Solution) Last() (State, float64) {
	n := len(s.States) - 1
	return s.States[n], s.Times[n]
}
