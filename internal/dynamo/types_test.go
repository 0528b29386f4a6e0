package dynamo

import (
	"math"
	"testing"
)

func TestState_ValidityAndNorm(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
		norm  float64
	}{
		{"empty", State{}, true, 0},
		{"pythagorean", State{3, 4}, true, 5},
		{"unit hypercube diagonal", State{1, 1, 1, 1}, true, 2},
		{"NaN", State{1, math.NaN()}, false, math.NaN()},
		{"+Inf", State{math.Inf(1), 0}, false, math.Inf(1)},
		{"-Inf", State{0, math.Inf(-1)}, false, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if !tt.valid {
				return
			}
			if got := tt.state.Norm(); math.Abs(got-tt.norm) > 1e-12 {
				t.Errorf("Norm() = %v, want %v", got, tt.norm)
			}
		})
	}
}

func TestState_ArithmeticCopies(t *testing.T) {
	q := State{1, 2, 3}
	p := State{0.5, -1, 4}

	check := func(op string, got, want State) {
		t.Helper()
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s = %v, want %v", op, got, want)
				return
			}
		}
	}
	check("Add", q.Add(p), State{1.5, 1, 7})
	check("Sub", q.Sub(p), State{0.5, 3, -1})
	check("Scale", p.Scale(-2), State{-1, 2, -8})
	check("receiver", q, State{1, 2, 3})
}

func TestState_PhaseSpaceHalves(t *testing.T) {
	x := State{1, 2, 3, 10, 20, 30}
	q, v := x.Positions(), x.Velocities()
	if len(q) != 3 || len(v) != 3 {
		t.Fatalf("expected halves of 3, got %d and %d", len(q), len(v))
	}
	if q[2] != 3 || v[0] != 10 {
		t.Errorf("unexpected halves %v %v", q, v)
	}
	v[0] = 99
	if x[3] != 99 {
		t.Error("Velocities should alias the state")
	}
}

func TestSolution_Endpoints(t *testing.T) {
	sol := &Solution{
		Times:  []float64{0, 0.5, 1},
		States: []State{{1}, {2}, {3}},
	}
	if x, t0 := sol.First(); x[0] != 1 || t0 != 0 {
		t.Errorf("First() = %v at %v", x, t0)
	}
	if x, t1 := sol.Last(); x[0] != 3 || t1 != 1 {
		t.Errorf("Last() = %v at %v", x, t1)
	}
}

func TestDefaultOptions_Usable(t *testing.T) {
	opts := DefaultOptions()
	if opts.Dt <= 0 || opts.MinDt <= 0 || opts.MinDt >= opts.Dt {
		t.Errorf("bad step bounds: dt %g, min %g", opts.Dt, opts.MinDt)
	}
	if opts.Tolerance.Abs <= 0 || opts.Tolerance.Rel <= 0 {
		t.Errorf("bad tolerance %v", opts.Tolerance)
	}
	if opts.Adaptive {
		t.Error("default options should step at a fixed dt")
	}
	if got := opts.Tolerance.String(); got != "abstol=1.0e-06 reltol=1.0e-06" {
		t.Errorf("Tolerance.String() = %q", got)
	}
}

func TestNewProblem_OwnsInitialState(t *testing.T) {
	x0 := State{1, 2}
	p := NewProblem(nil, x0, 0, 1)
	x0[0] = 42
	if p.X0[0] != 1 {
		t.Errorf("problem shares caller's slice: %v", p.X0)
	}
}
