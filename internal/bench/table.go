package bench

import (
	"time"

	"github.com/san-kum/argonbench/internal/experiment"
)

// Row is the measurement of one integrator configuration.
type Row struct {
	Integrator     string          `json:"integrator"`
	Kind           experiment.Kind `json:"-"`
	KindName       string          `json:"kind"`
	Runtime        time.Duration   `json:"runtime_ns"`
	AllocBytes     uint64          `json:"alloc_bytes"`
	Dt             float64         `json:"dt,omitempty"`
	AbsTol         float64         `json:"abstol,omitempty"`
	RelTol         float64         `json:"reltol,omitempty"`
	EnergyError    float64         `json:"energy_error"`
	Accepted       int             `json:"accepted"`
	Rejected       int             `json:"rejected"`
	Evaluations    int             `json:"evaluations"`
	NormalizedCost float64         `json:"normalized_cost"`
	Temperature    float64         `json:"temperature"`
}

// CostPerStep is wall clock seconds per accepted step.
func (r Row) CostPerStep() float64 {
	if r.Accepted == 0 {
		return 0
	}
	return r.Runtime.Seconds() / float64(r.Accepted)
}

// Group is the rows of one integrator in insertion order.
type Group struct {
	Integrator string
	Rows       []Row
}

// Table keeps rows in the order they were appended.
type Table struct {
	rows []Row
}

func NewTable(rows ...Row) *Table {
	t := &Table{}
	t.Append(rows...)
	return t
}

func (t *Table) Append(rows ...Row) {
	t.rows = append(t.rows, rows...)
}

func (t *Table) Len() int { return len(t.rows) }

func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Integrators lists integrator names in order of first appearance.
func (t *Table) Integrators() []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range t.rows {
		if !seen[r.Integrator] {
			seen[r.Integrator] = true
			names = append(names, r.Integrator)
		}
	}
	return names
}

// Groups splits the table by integrator, keeping first-appearance order
// between groups and insertion order within them.
func (t *Table) Groups() []Group {
	index := make(map[string]int)
	var groups []Group
	for _, r := range t.rows {
		i, ok := index[r.Integrator]
		if !ok {
			i = len(groups)
			index[r.Integrator] = i
			groups = append(groups, Group{Integrator: r.Integrator})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}
