package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/experiment"
	"github.com/san-kum/argonbench/internal/metrics"
)

func sampleTable() *bench.Table {
	return bench.NewTable(
		bench.Row{
			Integrator: "velocity_verlet", Kind: experiment.Symplectic, KindName: "symplectic",
			Runtime: 1500 * time.Millisecond, AllocBytes: 4096, Dt: 0.01,
			EnergyError: 1.25e-4, Accepted: 100, Evaluations: 101, NormalizedCost: 0.015,
			Temperature: 0.92,
		},
		bench.Row{
			Integrator: "dopri5", Kind: experiment.Adaptive, KindName: "adaptive",
			Runtime: 3 * time.Second, AllocBytes: 1 << 20, AbsTol: 1e-6, RelTol: 1e-4,
			EnergyError: 3.3e-7, Accepted: 41, Rejected: 3, Evaluations: 265, NormalizedCost: 0.073,
		},
	)
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	params := argon.DefaultParameters()
	runID, err := st.Save("quick", 0.5, params, sampleTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "quick_"))

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "quick", meta.Suite)
	assert.Equal(t, 2, meta.Rows)
	assert.Equal(t, []string{"velocity_verlet", "dopri5"}, meta.Integrators)
	assert.Equal(t, params, meta.Argon)
	assert.InDelta(t, 7.57, meta.Box, 0.01)

	table, err := st.LoadResults(runID)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	want := sampleTable().Rows()
	for i, got := range table.Rows() {
		assert.Equal(t, want[i].Integrator, got.Integrator)
		assert.Equal(t, want[i].Kind, got.Kind)
		assert.InDelta(t, want[i].Runtime.Seconds(), got.Runtime.Seconds(), 1e-9)
		assert.Equal(t, want[i].AllocBytes, got.AllocBytes)
		assert.Equal(t, want[i].Dt, got.Dt)
		assert.Equal(t, want[i].AbsTol, got.AbsTol)
		assert.Equal(t, want[i].RelTol, got.RelTol)
		assert.Equal(t, want[i].EnergyError, got.EnergyError)
		assert.Equal(t, want[i].Accepted, got.Accepted)
		assert.Equal(t, want[i].Rejected, got.Rejected)
		assert.Equal(t, want[i].Evaluations, got.Evaluations)
		assert.Equal(t, want[i].NormalizedCost, got.NormalizedCost)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save("a", 1, argon.DefaultParameters(), sampleTable())
	require.NoError(t, err)
	second, err := st.Save("b", 1, argon.DefaultParameters(), sampleTable())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "not-a-run"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
}

func TestStoreHistory(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save("h", 1, argon.DefaultParameters(), sampleTable())
	require.NoError(t, err)

	points, err := st.LoadHistory(runID)
	require.NoError(t, err)
	assert.Nil(t, points)

	history := []metrics.Point{{T: 0, Error: 0}, {T: 0.5, Error: 2e-5}, {T: 1, Error: 1e-5}}
	require.NoError(t, st.SaveHistory(runID, history))

	points, err = st.LoadHistory(runID)
	require.NoError(t, err)
	assert.Equal(t, history, points)
}

func TestLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("missing")
	assert.Error(t, err)
	_, err = st.LoadResults("missing")
	assert.Error(t, err)
}

func TestReadCSV_Malformed(t *testing.T) {
	header := strings.Join(csvHeader, ",")
	tests := map[string]string{
		"short row":    header + "\nleapfrog,symplectic,1\n",
		"bad kind":     header + "\nleapfrog,magic,1,0,0.1,0,0,0,1,0,1,1,1\n",
		"bad number":   header + "\nleapfrog,symplectic,x,0,0.1,0,0,0,1,0,1,1,1\n",
		"bad accepted": header + "\nleapfrog,symplectic,1,0,0.1,0,0,0,1.5,0,1,1,1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(data))
			assert.Error(t, err)
		})
	}
}

func TestExportJSON(t *testing.T) {
	meta := &RunMetadata{ID: "quick_1", Suite: "quick", Rows: 2}
	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, sampleTable(), nil))

	var data struct {
		Run  RunMetadata `json:"run"`
		Rows []struct {
			Integrator  string  `json:"integrator"`
			Kind        string  `json:"kind"`
			EnergyError float64 `json:"energy_error"`
		} `json:"rows"`
		History []metrics.Point `json:"history"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	assert.Equal(t, "quick_1", data.Run.ID)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "adaptive", data.Rows[1].Kind)
	assert.Equal(t, 3.3e-7, data.Rows[1].EnergyError)
	assert.Empty(t, data.History)
	assert.NotContains(t, buf.String(), `"history"`)
}

func TestExportJSON_NonFiniteValues(t *testing.T) {
	table := bench.NewTable(bench.Row{
		Integrator: "yoshida8", Kind: experiment.Symplectic, KindName: "symplectic",
		Dt: 0.5, EnergyError: math.Inf(1), NormalizedCost: 0.2, Temperature: math.NaN(),
	})
	history := []metrics.Point{{T: 0, Error: 0}, {T: 0.5, Error: math.Inf(1)}}

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, &RunMetadata{ID: "blowup_1"}, table, history))

	var data struct {
		Rows []struct {
			EnergyError *float64 `json:"energy_error"`
			Temperature *float64 `json:"temperature"`
			Cost        *float64 `json:"normalized_cost"`
			Diverged    bool     `json:"diverged"`
		} `json:"rows"`
		History []struct {
			Error *float64 `json:"error"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &data))
	require.Len(t, data.Rows, 1)
	assert.Nil(t, data.Rows[0].EnergyError)
	assert.Nil(t, data.Rows[0].Temperature)
	require.NotNil(t, data.Rows[0].Cost)
	assert.Equal(t, 0.2, *data.Rows[0].Cost)
	assert.True(t, data.Rows[0].Diverged)
	require.Len(t, data.History, 2)
	assert.NotNil(t, data.History[0].Error)
	assert.Nil(t, data.History[1].Error)
}
