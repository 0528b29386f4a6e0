package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/san-kum/argonbench/internal/argon"
	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	resultsFile  = "results.csv"
	historyFile  = "history.csv"
)

// Store keeps one directory per saved sweep under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string           `json:"id"`
	Suite       string           `json:"suite"`
	Timestamp   time.Time        `json:"timestamp"`
	Duration    float64          `json:"duration"`
	Argon       argon.Parameters `json:"argon"`
	Box         float64          `json:"box"`
	Rows        int              `json:"rows"`
	Integrators []string         `json:"integrators"`
}

// Save writes the table and its metadata into a new run directory and
// returns the run ID.
func (s *Store) Save(suite string, duration float64, params argon.Parameters, table *bench.Table) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", suite, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Suite:       suite,
		Timestamp:   now,
		Duration:    duration,
		Argon:       params,
		Box:         argon.Reduce(params).Box,
		Rows:        table.Len(),
		Integrators: table.Integrators(),
	}

	err := writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}
	err = writeFile(filepath.Join(runDir, resultsFile), func(w io.Writer) error {
		return WriteCSV(w, table)
	})
	if err != nil {
		return "", err
	}
	return runID, nil
}

// SaveHistory stores an energy error history next to a saved run.
func (s *Store) SaveHistory(runID string, points []metrics.Point) error {
	return writeFile(filepath.Join(s.baseDir, runID, historyFile), func(w io.Writer) error {
		return WriteHistoryCSV(w, points)
	})
}

// writeFile creates path and hands it to fill; a failed Close is reported.
func writeFile(path string, fill func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return fill(f)
}

// List returns the metadata of every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadResults(runID string) (*bench.Table, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, resultsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return table, nil
}

// LoadHistory returns the saved energy history, or nil if the run has none.
func (s *Store) LoadHistory(runID string) ([]metrics.Point, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return ReadHistoryCSV(f)
}
