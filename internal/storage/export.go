package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/san-kum/argonbench/internal/bench"
	"github.com/san-kum/argonbench/internal/experiment"
	"github.com/san-kum/argonbench/internal/metrics"
)

var csvHeader = []string{
	"integrator", "kind", "runtime_s", "alloc_bytes", "dt", "abstol", "reltol",
	"energy_error", "accepted", "rejected", "evaluations", "normalized_cost",
	"temperature",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes one line per row in table order.
func WriteCSV(w io.Writer, table *bench.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range table.Rows() {
		record := []string{
			r.Integrator,
			r.Kind.String(),
			formatFloat(r.Runtime.Seconds()),
			strconv.FormatUint(r.AllocBytes, 10),
			formatFloat(r.Dt),
			formatFloat(r.AbsTol),
			formatFloat(r.RelTol),
			formatFloat(r.EnergyError),
			strconv.Itoa(r.Accepted),
			strconv.Itoa(r.Rejected),
			strconv.Itoa(r.Evaluations),
			formatFloat(r.NormalizedCost),
			formatFloat(r.Temperature),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the output of WriteCSV.
func ReadCSV(r io.Reader) (*bench.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	table := bench.NewTable()
	for i, rec := range records {
		if i == 0 {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		table.Append(row)
	}
	return table, nil
}

func parseRow(rec []string) (bench.Row, error) {
	kind, err := experiment.ParseKind(rec[1])
	if err != nil {
		return bench.Row{}, err
	}
	floats := make([]float64, 0, 7)
	for _, i := range []int{2, 4, 5, 6, 7, 11, 12} {
		v, err := strconv.ParseFloat(rec[i], 64)
		if err != nil {
			return bench.Row{}, fmt.Errorf("column %s: %w", csvHeader[i], err)
		}
		floats = append(floats, v)
	}
	ints := make([]int, 0, 3)
	for _, i := range []int{8, 9, 10} {
		v, err := strconv.Atoi(rec[i])
		if err != nil {
			return bench.Row{}, fmt.Errorf("column %s: %w", csvHeader[i], err)
		}
		ints = append(ints, v)
	}
	alloc, err := strconv.ParseUint(rec[3], 10, 64)
	if err != nil {
		return bench.Row{}, fmt.Errorf("column alloc_bytes: %w", err)
	}

	return bench.Row{
		Integrator:     rec[0],
		Kind:           kind,
		KindName:       kind.String(),
		Runtime:        time.Duration(floats[0] * float64(time.Second)),
		AllocBytes:     alloc,
		Dt:             floats[1],
		AbsTol:         floats[2],
		RelTol:         floats[3],
		EnergyError:    floats[4],
		Accepted:       ints[0],
		Rejected:       ints[1],
		Evaluations:    ints[2],
		NormalizedCost: floats[5],
		Temperature:    floats[6],
	}, nil
}

func WriteHistoryCSV(w io.Writer, points []metrics.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "energy_error"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{formatFloat(p.T), formatFloat(p.Error)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadHistoryCSV(r io.Reader) ([]metrics.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	points := make([]metrics.Point, 0, len(records))
	for i, rec := range records {
		if i == 0 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		e, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		points = append(points, metrics.Point{T: t, Error: e})
	}
	return points, nil
}

// ExportData is the JSON form of a saved run. JSON has no Inf or NaN, so
// non-finite values (a run that blew up) are written as null and the row
// is flagged diverged.
type ExportData struct {
	Run     RunMetadata `json:"run"`
	Rows    []jsonRow   `json:"rows"`
	History []jsonPoint `json:"history,omitempty"`
}

type jsonRow struct {
	bench.Row
	EnergyError    *float64 `json:"energy_error"`
	NormalizedCost *float64 `json:"normalized_cost"`
	Temperature    *float64 `json:"temperature"`
	Diverged       bool     `json:"diverged,omitempty"`
}

type jsonPoint struct {
	T     float64  `json:"t"`
	Error *float64 `json:"error"`
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func ExportJSON(w io.Writer, meta *RunMetadata, table *bench.Table, history []metrics.Point) error {
	data := ExportData{Run: *meta}
	for _, r := range table.Rows() {
		row := jsonRow{
			Row:            r,
			EnergyError:    finite(r.EnergyError),
			NormalizedCost: finite(r.NormalizedCost),
			Temperature:    finite(r.Temperature),
		}
		row.Diverged = row.EnergyError == nil
		data.Rows = append(data.Rows, row)
	}
	for _, p := range history {
		data.History = append(data.History, jsonPoint{T: p.T, Error: finite(p.Error)})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
