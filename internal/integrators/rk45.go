package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/argonbench/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the Dormand-Prince 5(4) pair. The last stage of an accepted step
// is the first stage of the next one, so a step costs six evaluations.
type RK45 struct {
	fsal firstSameAsLast
}

func NewRK45() *RK45 {
	return &RK45{}
}

func (r *RK45) Name() string { return "dopri5" }

// Order is the order of the embedded error estimate.
func (r *RK45) Order() int { return 4 }

func (r *RK45) Reset() { r.fsal.reset() }

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _ := r.Attempt(dyn, x, t, dt)
	return next
}

func (r *RK45) Attempt(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	n := len(x)

	k1 := r.fsal.derive(dyn, x, t)

	x2 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x2[i] = x[i] + dt*b21*k1[i]
	}
	k2 := dyn.Derive(x2, t+a2*dt)

	x3 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x3[i] = x[i] + dt*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(x3, t+a3*dt)

	x4 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x4[i] = x[i] + dt*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(x4, t+a4*dt)

	x5 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x5[i] = x[i] + dt*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(x5, t+a5*dt)

	x6 := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		x6[i] = x[i] + dt*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(x6, t+dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}

	k7 := dyn.Derive(xNew, t+dt)

	errEst := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
	}

	r.fsal.store(xNew, k7)
	return xNew, errEst
}

// firstSameAsLast remembers the derivative at the start and at the end of
// the previous attempt: after an accepted step the solver continues from the
// end state, after a rejected one it retries from the start state.
type firstSameAsLast struct {
	start, end cachedDerivative
}

type cachedDerivative struct {
	x     dynamo.State
	dx    dynamo.State
	valid bool
}

func (c *cachedDerivative) matches(x dynamo.State) bool {
	return c.valid && floats.Equal(x, c.x)
}

func (c *cachedDerivative) set(x, dx dynamo.State) {
	c.x = append(c.x[:0], x...)
	c.dx = append(c.dx[:0], dx...)
	c.valid = true
}

// derive returns a copy so later stores cannot alias a live stage vector.
func (f *firstSameAsLast) derive(dyn dynamo.System, x dynamo.State, t float64) dynamo.State {
	switch {
	case f.end.matches(x):
		f.start, f.end = f.end, f.start
		return f.start.dx.Clone()
	case f.start.matches(x):
		return f.start.dx.Clone()
	}
	dx := dyn.Derive(x, t)
	f.start.set(x, dx)
	return dx
}

func (f *firstSameAsLast) store(x, dx dynamo.State) {
	f.end.set(x, dx)
}

func (f *firstSameAsLast) reset() {
	f.start.valid = false
	f.end.valid = false
}
