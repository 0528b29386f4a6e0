package metrics

import (
	"math"

	"github.com/san-kum/argonbench/internal/dynamo"
)

// EnergyDrift tracks |E(t) - E(t0)| over observed states. Value is the drift
// at the last observed state, which for a solution is the benchmark's energy
// error.
type EnergyDrift struct {
	name          string
	h             dynamo.Hamiltonian
	initialEnergy float64
	currentDrift  float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_error",
		h:    h,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.h.Energy(x)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	e.currentDrift = math.Abs(energy - e.initialEnergy)
	if math.IsNaN(e.currentDrift) {
		e.currentDrift = math.Inf(1)
	}
	e.maxDrift = math.Max(e.maxDrift, e.currentDrift)
}

func (e *EnergyDrift) Value() float64 { return e.currentDrift }

// Max is the largest drift seen so far.
func (e *EnergyDrift) Max() float64 { return e.maxDrift }

// Initial is the energy of the first observed state.
func (e *EnergyDrift) Initial() float64 { return e.initialEnergy }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentDrift = 0
	e.maxDrift = 0
	e.samples = 0
}

// Point is one sample of an energy error history.
type Point struct {
	T     float64 `json:"t"`
	Error float64 `json:"error"`
}

// EnergyHistory records |E(t) - E(t0)| at every observed state.
type EnergyHistory struct {
	drift  EnergyDrift
	points []Point
}

func NewEnergyHistory(h dynamo.Hamiltonian) *EnergyHistory {
	return &EnergyHistory{drift: EnergyDrift{name: "energy_history", h: h}}
}

func (e *EnergyHistory) Name() string { return e.drift.name }

func (e *EnergyHistory) Observe(x dynamo.State, t float64) {
	e.drift.Observe(x, t)
	e.points = append(e.points, Point{T: t, Error: e.drift.Value()})
}

func (e *EnergyHistory) Value() float64 { return e.drift.Max() }

func (e *EnergyHistory) Points() []Point { return e.points }

func (e *EnergyHistory) Reset() {
	e.drift.Reset()
	e.points = nil
}
