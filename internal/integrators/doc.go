// Package integrators implements the time-stepping schemes compared by the
// benchmark.
//
// Symplectic splittings for separable second-order systems ([Splitting]):
// velocity Verlet, leapfrog, Ruth 3, Forest-Ruth 4 and Yoshida 6/8
// compositions. Fixed-step non-symplectic: [RK4]. Adaptive embedded pairs
// for use with [dynamo.Options.Adaptive]: [RK45] (Dormand-Prince 5(4)) and
// [BS3] (Bogacki-Shampine 3(2)).
package integrators
