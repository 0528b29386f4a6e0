package integrators

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/argonbench/internal/dynamo"
)

func TestRK45_Step(t *testing.T) {
	x := integrate(NewRK45(), &oscillator{}, dynamo.State{1.0, 0.0}, 0.01, 10)

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-9 {
		t.Errorf("RK45 fixed-step error too large: %e", math.Abs(x[0]-math.Cos(10)))
	}
}

func TestRK45_FirstSameAsLast(t *testing.T) {
	dyn := &oscillator{}
	integrate(NewRK45(), dyn, dynamo.State{1.0, 0.0}, 0.1, 1.0)

	// seven evaluations for the first step, six for each of the other nine
	if dyn.calls != 7+9*6 {
		t.Errorf("expected %d evaluations, got %d", 7+9*6, dyn.calls)
	}
}

func TestRK45_RetryReusesStartDerivative(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK45()
	x0 := dynamo.State{1.0, 0.0}

	integ.Attempt(dyn, x0, 0, 0.5)
	dyn.calls = 0
	integ.Attempt(dyn, x0, 0, 0.25)
	if dyn.calls != 6 {
		t.Errorf("expected 6 evaluations on retry, got %d", dyn.calls)
	}
}

func TestRK45_ErrorEstimateShrinks(t *testing.T) {
	integ := NewRK45()
	dyn := &oscillator{}
	x0 := dynamo.State{1.0, 0.0}

	_, e1 := integ.Attempt(dyn, x0, 0, 0.2)
	integ.Reset()
	_, e2 := integ.Attempt(dyn, x0, 0, 0.1)

	// local error estimate is fifth order in dt
	ratio := e1.Norm() / e2.Norm()
	if ratio < 16 {
		t.Errorf("error estimate ratio %.2f too small for a 5(4) pair", ratio)
	}
}

func TestAdaptive_MeetsTolerance(t *testing.T) {
	for _, integ := range []dynamo.AdaptiveIntegrator{NewRK45(), NewBS3()} {
		t.Run(integ.Name(), func(t *testing.T) {
			p := dynamo.NewProblem(&oscillator{}, dynamo.State{1, 0}, 0, 10)
			opts := dynamo.Options{Adaptive: true, Tolerance: dynamo.Tolerance{Abs: 1e-8, Rel: 1e-8}, MinDt: 1e-12}

			sol, err := dynamo.New(integ).Solve(context.Background(), p, opts)
			if err != nil {
				t.Fatalf("solve failed: %v", err)
			}
			x, _ := sol.Last()
			if e := math.Abs(x[0] - math.Cos(10)); e > 1e-5 {
				t.Errorf("global error %e too large for tolerance 1e-8", e)
			}
			if sol.StepsTaken == 0 || sol.Evaluations == 0 {
				t.Errorf("missing statistics: steps=%d evals=%d", sol.StepsTaken, sol.Evaluations)
			}
		})
	}
}

func TestBS3_MoreStepsThanRK45(t *testing.T) {
	p := dynamo.NewProblem(&oscillator{}, dynamo.State{1, 0}, 0, 10)
	opts := dynamo.Options{Adaptive: true, Tolerance: dynamo.Tolerance{Abs: 1e-8, Rel: 1e-8}, MinDt: 1e-12}

	low, err := dynamo.New(NewBS3()).Solve(context.Background(), p, opts)
	if err != nil {
		t.Fatal(err)
	}
	high, err := dynamo.New(NewRK45()).Solve(context.Background(), p, opts)
	if err != nil {
		t.Fatal(err)
	}
	if low.StepsTaken <= high.StepsTaken {
		t.Errorf("expected bs3 to need more steps than dopri5: %d <= %d", low.StepsTaken, high.StepsTaken)
	}
}
