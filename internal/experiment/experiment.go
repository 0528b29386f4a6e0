package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/argonbench/internal/dynamo"
)

// Config is one integrator configuration. Dt is used by symplectic and
// fixed integrators, AbsTol/RelTol by adaptive ones. SaveEvery controls how
// many accepted steps lie between saved states; zero keeps only the
// endpoints.
type Config struct {
	Integrator string  `yaml:"integrator" json:"integrator"`
	Dt         float64 `yaml:"dt,omitempty" json:"dt,omitempty"`
	AbsTol     float64 `yaml:"abstol,omitempty" json:"abstol,omitempty"`
	RelTol     float64 `yaml:"reltol,omitempty" json:"reltol,omitempty"`
	SaveEvery  int     `yaml:"save_every,omitempty" json:"save_every,omitempty"`
}

func (c Config) Tolerance() dynamo.Tolerance {
	return dynamo.Tolerance{Abs: c.AbsTol, Rel: c.RelTol}
}

func (c Config) String() string {
	if c.AbsTol > 0 || c.RelTol > 0 {
		return fmt.Sprintf("%s(%s)", c.Integrator, c.Tolerance())
	}
	return fmt.Sprintf("%s(dt=%g)", c.Integrator, c.Dt)
}

type Experiment struct {
	cfg        Config
	kind       Kind
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
}

func New(reg *Registry, cfg Config) (*Experiment, error) {
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	kind, _ := reg.Kind(cfg.Integrator)

	switch {
	case kind == Adaptive && cfg.AbsTol <= 0 && cfg.RelTol <= 0:
		return nil, fmt.Errorf("%s needs a tolerance: %w", cfg.Integrator, dynamo.ErrParameterBounds)
	case kind != Adaptive && cfg.Dt <= 0:
		return nil, fmt.Errorf("%s needs a positive dt, got %g: %w", cfg.Integrator, cfg.Dt, dynamo.ErrParameterBounds)
	}

	return &Experiment{cfg: cfg, kind: kind, integrator: integ}, nil
}

func (e *Experiment) Config() Config { return e.cfg }
func (e *Experiment) Kind() Kind     { return e.kind }

// AddMetric registers an observer evaluated on the saved states after
// each run.
func (e *Experiment) AddMetric(m dynamo.Metric) {
	e.metrics = append(e.metrics, m)
}

func (e *Experiment) Options() dynamo.Options {
	opts := dynamo.DefaultOptions()
	opts.SaveEvery = e.cfg.SaveEvery
	if e.kind == Adaptive {
		opts.Adaptive = true
		opts.Dt = 0
		opts.Tolerance = e.cfg.Tolerance()
	} else {
		opts.Dt = e.cfg.Dt
	}
	return opts
}

// Solve integrates p without touching the metrics.
func (e *Experiment) Solve(ctx context.Context, p *dynamo.Problem) (*dynamo.Solution, error) {
	sol, err := dynamo.New(e.integrator).Solve(ctx, p, e.Options())
	if err != nil {
		return sol, fmt.Errorf("%s: %w", e.cfg, err)
	}
	return sol, nil
}

// Observe resets every metric and feeds it the saved states of sol.
func (e *Experiment) Observe(sol *dynamo.Solution) {
	for _, m := range e.metrics {
		m.Reset()
		for i, x := range sol.States {
			m.Observe(x, sol.Times[i])
		}
	}
}

// Run solves p and then evaluates the metrics.
func (e *Experiment) Run(ctx context.Context, p *dynamo.Problem) (*dynamo.Solution, error) {
	sol, err := e.Solve(ctx, p)
	if err != nil {
		return sol, err
	}
	e.Observe(sol)
	return sol, nil
}

// Metrics returns metric values by name.
func (e *Experiment) Metrics() map[string]float64 {
	values := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		values[m.Name()] = m.Value()
	}
	return values
}
