// Package dataio reads and writes the measurement series and fit reports
// exchanged by the command-line tools.
package dataio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Series is a sampled data set: detuning positions, measured values and
// optional per-sample weights.
type Series struct {
	X       []float64 `json:"x"`
	Y       []float64 `json:"y"`
	Weights []float64 `json:"weights,omitempty"`
}

// Validate checks that the columns line up.
func (s Series) Validate() error {
	if len(s.X) == 0 {
		return fmt.Errorf("dataio: series is empty")
	}
	if len(s.Y) != len(s.X) {
		return fmt.Errorf("dataio: series has %d x values and %d y values", len(s.X), len(s.Y))
	}
	if s.Weights != nil && len(s.Weights) != len(s.X) {
		return fmt.Errorf("dataio: series has %d weights for %d samples", len(s.Weights), len(s.X))
	}
	return nil
}

// ReadSeries loads a series from path. The format follows the file
// extension: .json expects {"x": [...], "y": [...], "weights": [...]},
// anything else is parsed as delimited text with two or three columns
// (x, y and an optional weight). A .tsv extension switches the delimiter
// to tabs, and a non-numeric first row is skipped as a header.
func ReadSeries(path string) (Series, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return readSeriesJSON(path)
	}
	return readSeriesCSV(path)
}

func readSeriesJSON(path string) (Series, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Series{}, err
	}
	var s Series
	if err := json.Unmarshal(data, &s); err != nil {
		return Series{}, fmt.Errorf("dataio: %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

func readSeriesCSV(path string) (Series, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		r.Comma = '\t'
	}
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("dataio: %s: %w", path, err)
	}
	if len(records) == 0 {
		return Series{}, fmt.Errorf("dataio: %s: no rows", path)
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(records[0][0]), 64); err != nil {
		records = records[1:]
	}

	var s Series
	for i, rec := range records {
		if len(rec) != 2 && len(rec) != 3 {
			return Series{}, fmt.Errorf("dataio: %s: row %d has %d columns, want 2 or 3", path, i+1, len(rec))
		}
		vals := make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return Series{}, fmt.Errorf("dataio: %s: row %d column %d: %w", path, i+1, j+1, err)
			}
			vals[j] = v
		}
		s.X = append(s.X, vals[0])
		s.Y = append(s.Y, vals[1])
		if len(rec) == 3 {
			s.Weights = append(s.Weights, vals[2])
		}
	}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// WriteSeriesCSV writes the series as comma-separated x,y[,weight] rows
// behind a header row. Values keep full float64 precision so a written
// series reads back exactly.
func WriteSeriesCSV(path string, s Series) error {
	if err := s.Validate(); err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	w := csv.NewWriter(fp)
	header := []string{"x", "y"}
	if s.Weights != nil {
		header = append(header, "weight")
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i := range s.X {
		row := []string{formatFloat(s.X[i]), formatFloat(s.Y[i])}
		if s.Weights != nil {
			row = append(row, formatFloat(s.Weights[i]))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteSeriesJSON writes the series as indented JSON.
func WriteSeriesJSON(path string, s Series) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
