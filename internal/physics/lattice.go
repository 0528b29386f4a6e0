package physics

import (
	"math"
	"math/rand/v2"
)

// CubicLattice places n points on the first n nodes of a simple cubic
// lattice filling a box of side box. Nodes are spaced box/ceil(cbrt(n))
// apart and offset by half a spacing from the walls.
func CubicLattice(n int, box float64) []float64 {
	side := int(math.Ceil(math.Cbrt(float64(n))))
	for side*side*side < n {
		side++
	}
	dl := box / float64(side)

	q := make([]float64, 0, 3*n)
	for i := 0; i < side && len(q) < 3*n; i++ {
		for j := 0; j < side && len(q) < 3*n; j++ {
			for k := 0; k < side && len(q) < 3*n; k++ {
				q = append(q, (float64(i)+0.5)*dl, (float64(j)+0.5)*dl, (float64(k)+0.5)*dl)
			}
		}
	}
	return q
}

// ThermalVelocities draws 3n Gaussian velocity components with standard
// deviation std from a generator seeded with seed, then removes the
// centre-of-mass drift.
func ThermalVelocities(n int, std float64, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed))
	v := make([]float64, 3*n)
	for i := range v {
		v[i] = std * rng.NormFloat64()
	}

	var com [3]float64
	for i := 0; i < n; i++ {
		for d := 0; d < 3; d++ {
			com[d] += v[3*i+d]
		}
	}
	for i := 0; i < n; i++ {
		for d := 0; d < 3; d++ {
			v[3*i+d] -= com[d] / float64(n)
		}
	}
	return v
}
