package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/integrators"
)

var ErrUnknownIntegrator = errors.New("experiment: unknown integrator")

// Kind says how an integrator is driven: symplectic and fixed kinds take a
// step size, adaptive ones a tolerance pair.
type Kind int

const (
	Symplectic Kind = iota
	Fixed
	Adaptive
)

func (k Kind) String() string {
	switch k {
	case Symplectic:
		return "symplectic"
	case Fixed:
		return "fixed"
	case Adaptive:
		return "adaptive"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Symplectic, Fixed, Adaptive} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown integrator kind %q", s)
}

type entry struct {
	kind  Kind
	build func() dynamo.Integrator
}

type Registry struct {
	integrators map[string]entry
	order       []string
}

func NewRegistry() *Registry {
	r := &Registry{integrators: make(map[string]entry)}

	r.Register("velocity_verlet", Symplectic, func() dynamo.Integrator { return integrators.NewVelocityVerlet() })
	r.Register("leapfrog", Symplectic, func() dynamo.Integrator { return integrators.NewLeapfrog() })
	r.Register("ruth3", Symplectic, func() dynamo.Integrator { return integrators.NewRuth3() })
	r.Register("forest_ruth4", Symplectic, func() dynamo.Integrator { return integrators.NewForestRuth4() })
	r.Register("yoshida6", Symplectic, func() dynamo.Integrator { return integrators.NewYoshida6() })
	r.Register("yoshida8", Symplectic, func() dynamo.Integrator { return integrators.NewYoshida8() })

	r.Register("rk4", Fixed, func() dynamo.Integrator { return integrators.NewRK4() })

	r.Register("dopri5", Adaptive, func() dynamo.Integrator { return integrators.NewRK45() })
	r.Register("bs3", Adaptive, func() dynamo.Integrator { return integrators.NewBS3() })

	return r
}

// Register adds or replaces an integrator constructor.
func (r *Registry) Register(name string, kind Kind, build func() dynamo.Integrator) {
	if _, ok := r.integrators[name]; !ok {
		r.order = append(r.order, name)
	}
	r.integrators[name] = entry{kind: kind, build: build}
}

// GetIntegrator returns a fresh instance, so caches never leak between runs.
func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	e, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownIntegrator)
	}
	return e.build(), nil
}

func (r *Registry) Kind(name string) (Kind, error) {
	e, ok := r.integrators[name]
	if !ok {
		return 0, fmt.Errorf("%q: %w", name, ErrUnknownIntegrator)
	}
	return e.kind, nil
}

// ListIntegrators returns names in registration order.
func (r *Registry) ListIntegrators() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// ListKind returns the names of one kind in registration order.
func (r *Registry) ListKind(kind Kind) []string {
	var names []string
	for _, name := range r.order {
		if r.integrators[name].kind == kind {
			names = append(names, name)
		}
	}
	return names
}
