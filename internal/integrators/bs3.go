package integrators

import "github.com/san-kum/argonbench/internal/dynamo"

// BS3 is the Bogacki-Shampine 3(2) pair, FSAL like RK45.
type BS3 struct {
	fsal firstSameAsLast
}

func NewBS3() *BS3 {
	return &BS3{}
}

func (b *BS3) Name() string { return "bs3" }
func (b *BS3) Order() int   { return 2 }
func (b *BS3) Reset()       { b.fsal.reset() }

func (b *BS3) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _ := b.Attempt(dyn, x, t, dt)
	return next
}

func (b *BS3) Attempt(dyn dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, dynamo.State) {
	n := len(x)
	k1 := b.fsal.derive(dyn, x, t)

	stage := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		stage[i] = x[i] + 0.5*dt*k1[i]
	}
	k2 := dyn.Derive(stage, t+0.5*dt)

	for i := 0; i < n; i++ {
		stage[i] = x[i] + 0.75*dt*k2[i]
	}
	k3 := dyn.Derive(stage, t+0.75*dt)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(2.0/9.0*k1[i]+1.0/3.0*k2[i]+4.0/9.0*k3[i])
	}
	k4 := dyn.Derive(xNew, t+dt)

	// second-order companion: 7/24, 1/4, 1/3, 1/8
	errEst := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * ((2.0/9.0-7.0/24.0)*k1[i] + (1.0/3.0-1.0/4.0)*k2[i] + (4.0/9.0-1.0/3.0)*k3[i] - 1.0/8.0*k4[i])
	}

	b.fsal.store(xNew, k4)
	return xNew, errEst
}
