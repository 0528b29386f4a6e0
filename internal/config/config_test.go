package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/argonbench/internal/dynamo"
	"github.com/san-kum/argonbench/internal/experiment"
)

func TestDefaultSuite(t *testing.T) {
	s := DefaultSuite()

	assert.Equal(t, "default", s.Name)
	assert.Positive(t, s.Duration)
	assert.Equal(t, 350, s.Argon.Particles)
	assert.Len(t, s.Tolerances, len(s.StepSizes))
	assert.NoError(t, s.Validate(experiment.NewRegistry()))
}

func TestGetPreset(t *testing.T) {
	s := GetPreset("symplectic")
	require.NotNil(t, s)
	assert.True(t, s.Cost.Normalize)
	assert.Len(t, s.Integrators, 6)
	assert.Equal(t, 350, s.Argon.Particles, "argon defaults filled in")

	s.Integrators[0] = "changed"
	assert.Equal(t, "velocity_verlet", Presets["symplectic"].Integrators[0], "preset must not be modified through a copy")
}

func TestGetPreset_NotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestPresetsValidate(t *testing.T) {
	reg := experiment.NewRegistry()
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, GetPreset(name).Validate(reg))
		})
	}
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"adaptive", "full", "quick", "symplectic"}, ListPresets())
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	data := `
name: small
duration: 0.2
argon:
  particles: 64
  cutoff: 2.0
integrators: [leapfrog, bs3]
step_sizes: [0.01]
tolerances:
  - {abstol: 1e-5, reltol: 1e-3}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", s.Name)
	assert.Equal(t, 64, s.Argon.Particles)
	assert.Equal(t, 120.0, s.Argon.Temperature, "unset argon fields keep defaults")
	assert.Equal(t, []dynamo.Tolerance{{Abs: 1e-5, Rel: 1e-3}}, s.Tolerances)
	assert.Equal(t, DefaultBaseline, s.Cost.Baseline)
	assert.NoError(t, s.Validate(experiment.NewRegistry()))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	s := GetPreset("quick")
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("duration: [1"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	reg := experiment.NewRegistry()
	tests := []struct {
		name   string
		mutate func(*Suite)
	}{
		{"zero duration", func(s *Suite) { s.Duration = 0 }},
		{"negative step", func(s *Suite) { s.StepSizes[0] = -0.1 }},
		{"zero tolerance", func(s *Suite) { s.Tolerances[0] = dynamo.Tolerance{} }},
		{"unknown integrator", func(s *Suite) { s.Integrators = append(s.Integrators, "euler") }},
		{"unknown baseline", func(s *Suite) { s.Cost = CostConfig{Normalize: true, Baseline: "euler"} }},
		{"mismatched sequences", func(s *Suite) { s.Tolerances = s.Tolerances[:1] }},
		{"bad argon", func(s *Suite) { s.Argon.Particles = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSuite()
			tt.mutate(s)
			assert.Error(t, s.Validate(reg))
		})
	}
}

func TestHistoryExperiment(t *testing.T) {
	cfg := DefaultSuite().HistoryExperiment()
	assert.Equal(t, experiment.Config{Integrator: DefaultIntegrator, Dt: DefaultHistoryDt, SaveEvery: DefaultSaveEvery}, cfg)
}
