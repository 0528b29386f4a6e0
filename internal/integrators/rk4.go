package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/argonbench/internal/dynamo"
)

// RK4 is the classical fourth-order Runge-Kutta method. Not symplectic.
type RK4 struct {
	stage dynamo.State
	acc   dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }
func (r *RK4) Order() int   { return 4 }

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	if len(r.stage) != n {
		r.stage = make(dynamo.State, n)
		r.acc = make(dynamo.State, n)
	}

	// acc collects k1 + 2k2 + 2k3 + k4; each stage is evaluated before
	// the next overwrites the stage buffer.
	k := dyn.Derive(x, t)
	copy(r.acc, k)
	for _, c := range [...]float64{0.5, 0.5, 1} {
		floats.AddScaledTo(r.stage, x, c*dt, k)
		k = dyn.Derive(r.stage, t+c*dt)
		w := 2.0
		if c == 1 {
			w = 1
		}
		floats.AddScaled(r.acc, w, k)
	}

	next := make(dynamo.State, n)
	floats.AddScaledTo(next, x, dt/6, r.acc)
	return next
}
