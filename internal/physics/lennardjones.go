package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/argonbench/internal/dynamo"
)

// LennardJones is N identical particles in a cubic periodic box interacting
// through a truncated and shifted 12-6 potential, in reduced units
// (sigma = epsilon = m = 1). The state is laid out as [q; v] with q and v
// holding 3N coordinates each, which is the layout the splitting integrators
// expect.
type LennardJones struct {
	N      int
	Box    float64
	Cutoff float64

	rc2   float64
	shift float64
}

func NewLennardJones(n int, box, cutoff float64) (*LennardJones, error) {
	if n <= 0 {
		return nil, fmt.Errorf("particle count %d: %w", n, dynamo.ErrParameterBounds)
	}
	if box <= 0 || cutoff <= 0 {
		return nil, fmt.Errorf("box %g, cutoff %g: %w", box, cutoff, dynamo.ErrParameterBounds)
	}
	if cutoff > box/2 {
		return nil, fmt.Errorf("cutoff %g exceeds half the box %g: %w", cutoff, box/2, dynamo.ErrParameterBounds)
	}
	ir6 := math.Pow(cutoff, -6)
	return &LennardJones{
		N:      n,
		Box:    box,
		Cutoff: cutoff,
		rc2:    cutoff * cutoff,
		shift:  4 * (ir6*ir6 - ir6),
	}, nil
}

func (lj *LennardJones) StateDim() int { return 6 * lj.N }

// minimumImage maps a displacement component onto the nearest periodic image.
func (lj *LennardJones) minimumImage(d float64) float64 {
	return d - lj.Box*math.Round(d/lj.Box)
}

func (lj *LennardJones) Derive(x dynamo.State, t float64) dynamo.State {
	n3 := 3 * lj.N
	dx := make(dynamo.State, 2*n3)
	copy(dx[:n3], x[n3:])
	lj.accelerations(x[:n3], dx[n3:])
	return dx
}

func (lj *LennardJones) accelerations(q, a []float64) {
	for i := 0; i < lj.N; i++ {
		xi, yi, zi := q[3*i], q[3*i+1], q[3*i+2]
		for j := i + 1; j < lj.N; j++ {
			rx := lj.minimumImage(xi - q[3*j])
			ry := lj.minimumImage(yi - q[3*j+1])
			rz := lj.minimumImage(zi - q[3*j+2])
			r2 := rx*rx + ry*ry + rz*rz
			if r2 >= lj.rc2 {
				continue
			}

			ir2 := 1 / r2
			ir6 := ir2 * ir2 * ir2
			f := 24 * ir2 * ir6 * (2*ir6 - 1)

			a[3*i] += f * rx
			a[3*i+1] += f * ry
			a[3*i+2] += f * rz
			a[3*j] -= f * rx
			a[3*j+1] -= f * ry
			a[3*j+2] -= f * rz
		}
	}
}

// Potential is the total pair energy within the cutoff.
func (lj *LennardJones) Potential(x dynamo.State) float64 {
	q := x[:3*lj.N]
	pe := 0.0
	for i := 0; i < lj.N; i++ {
		for j := i + 1; j < lj.N; j++ {
			rx := lj.minimumImage(q[3*i] - q[3*j])
			ry := lj.minimumImage(q[3*i+1] - q[3*j+1])
			rz := lj.minimumImage(q[3*i+2] - q[3*j+2])
			r2 := rx*rx + ry*ry + rz*rz
			if r2 >= lj.rc2 {
				continue
			}
			ir6 := 1 / (r2 * r2 * r2)
			pe += 4*(ir6*ir6-ir6) - lj.shift
		}
	}
	return pe
}

func (lj *LennardJones) Kinetic(x dynamo.State) float64 {
	ke := 0.0
	for _, v := range x[3*lj.N:] {
		ke += 0.5 * v * v
	}
	return ke
}

func (lj *LennardJones) Energy(x dynamo.State) float64 {
	return lj.Kinetic(x) + lj.Potential(x)
}

// Temperature is the instantaneous kinetic temperature in units of
// epsilon/kB, with three degrees of freedom removed for the fixed
// centre of mass.
func (lj *LennardJones) Temperature(x dynamo.State) float64 {
	dof := 3*lj.N - 3
	if dof <= 0 {
		return 0
	}
	return 2 * lj.Kinetic(x) / float64(dof)
}

// Momentum is the total momentum vector.
func (lj *LennardJones) Momentum(x dynamo.State) [3]float64 {
	var p [3]float64
	v := x[3*lj.N:]
	for i := 0; i < lj.N; i++ {
		p[0] += v[3*i]
		p[1] += v[3*i+1]
		p[2] += v[3*i+2]
	}
	return p
}
