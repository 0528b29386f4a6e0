// Package argon builds the liquid argon benchmark problem: physical
// constants, conversion to reduced units and the initial lattice state.
package argon

import (
	"fmt"
	"math"

	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/physics"
)

// Parameters are the physical inputs in SI units. Cutoff is in units of
// Sigma.
type Parameters struct {
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Boltzmann   float64 `yaml:"boltzmann" json:"boltzmann"`
	Sigma       float64 `yaml:"sigma" json:"sigma"`
	Density     float64 `yaml:"density" json:"density"`
	Mass        float64 `yaml:"mass" json:"mass"`
	Particles   int     `yaml:"particles" json:"particles"`
	Cutoff      float64 `yaml:"cutoff" json:"cutoff"`
}

func DefaultParameters() Parameters {
	return Parameters{
		Temperature: 120,
		Boltzmann:   1.38e-23,
		Sigma:       3.4e-10,
		Density:     1374,
		Mass:        39.95 * 1.6747e-27,
		Particles:   350,
		Cutoff:      3.5,
	}
}

// Epsilon is the interaction energy scale, kB*T.
func (p Parameters) Epsilon() float64 {
	return p.Boltzmann * p.Temperature
}

func (p Parameters) Validate() error {
	if p.Particles <= 0 {
		return fmt.Errorf("particles must be positive, got %d: %w", p.Particles, dynamo.ErrParameterBounds)
	}
	for name, v := range map[string]float64{
		"temperature": p.Temperature,
		"boltzmann":   p.Boltzmann,
		"sigma":       p.Sigma,
		"density":     p.Density,
		"mass":        p.Mass,
		"cutoff":      p.Cutoff,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %g: %w", name, v, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

// BoxLength is the side of the cube holding n particles of mass m at
// density rho, in metres.
func BoxLength(m float64, n int, rho float64) float64 {
	return math.Cbrt(m * float64(n) / rho)
}

// ThermalVelocity is the per-component velocity spread sqrt(kB*T/m).
func ThermalVelocity(kB, temperature, m float64) float64 {
	return math.Sqrt(kB * temperature / m)
}

// Reduced holds the dimensionless quantities handed to the solver.
type Reduced struct {
	Box       float64 `json:"box"`
	Cutoff    float64 `json:"cutoff"`
	Velocity  float64 `json:"velocity"`
	TimeUnit  float64 `json:"time_unit"`
	Particles int     `json:"particles"`
}

// Reduce converts p to reduced units with sigma, epsilon and m as the
// length, energy and mass scales. TimeUnit is tau = sigma*sqrt(m/epsilon)
// in seconds.
func Reduce(p Parameters) Reduced {
	eps := p.Epsilon()
	return Reduced{
		Box:       BoxLength(p.Mass, p.Particles, p.Density) / p.Sigma,
		Cutoff:    p.Cutoff,
		Velocity:  ThermalVelocity(p.Boltzmann, p.Temperature, p.Mass) / math.Sqrt(eps/p.Mass),
		TimeUnit:  p.Sigma * math.Sqrt(p.Mass/eps),
		Particles: p.Particles,
	}
}

// Setup builds the problem of integrating the argon system over
// [0, duration] reduced time units. Particles start on a cubic lattice with
// Gaussian velocities drawn from a generator seeded with the particle
// count, so identical parameters give identical initial states.
func Setup(p Parameters, duration float64) (*dynamo.Problem, *physics.LennardJones, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if !(duration > 0) {
		return nil, nil, fmt.Errorf("duration must be positive, got %g: %w", duration, dynamo.ErrParameterBounds)
	}

	r := Reduce(p)
	lj, err := physics.NewLennardJones(r.Particles, r.Box, r.Cutoff)
	if err != nil {
		return nil, nil, fmt.Errorf("argon setup: %w", err)
	}

	x0 := make(dynamo.State, 0, lj.StateDim())
	x0 = append(x0, physics.CubicLattice(r.Particles, r.Box)...)
	x0 = append(x0, physics.ThermalVelocities(r.Particles, r.Velocity, uint64(r.Particles))...)

	return dynamo.NewProblem(lj, x0, 0, duration), lj, nil
}
