// Package physics provides the particle model integrated by the benchmark.
//
// [LennardJones] implements [dynamo.System] and [dynamo.Hamiltonian] for N
// particles in a periodic cube, using the minimum image convention and a
// truncated, shifted pair potential so the energy is continuous at the
// cutoff. [CubicLattice] and [ThermalVelocities] build reproducible initial
// conditions.
//
//	lj, err := physics.NewLennardJones(350, 7.57, 3.5)
//	q := physics.CubicLattice(350, 7.57)
//	v := physics.ThermalVelocities(350, 1.0, 350)
//	x0 := append(dynamo.State(q), v...)
//	e0 := lj.Energy(x0)
package physics
