// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// solution of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [AdaptiveIntegrator]: integrator with an embedded error estimate
//   - [Simulator]: solves a [Problem] and returns a [Solution]
//
// # Example
//
//	p := dynamo.NewProblem(sys, x0, 0, 10)
//	sim := dynamo.New(integrators.NewVelocityVerlet())
//	sol, _ := sim.Solve(ctx, p, dynamo.Options{Dt: 0.001, SaveEvery: 10})
//
// # Step Statistics
//
// Every [Solution] records accepted steps, rejected steps and the number of
// right-hand-side evaluations made while solving. Integrators that reuse
// force evaluations between steps report the reduced count.
//
// # Thread Safety
//
// Simulator and integrator instances are NOT thread-safe.
package dynamo
