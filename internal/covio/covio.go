// Package covio reads sample covariance matrices from CSV and YAML files.
// Both formats accept either a full square grid or a lower triangle, which
// is mirrored into the full matrix before validation.
package covio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmsalab/pathmodelfit"
)

// ReadFile parses the covariance matrix at path, dispatching on the file
// extension: .csv, .yaml, or .yml.
func ReadFile(path string) (*pathmodelfit.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open covariance file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return ParseCSV(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported covariance file extension %q", pathmodelfit.ErrInvalidInput, ext)
	}
}

// ParseCSV reads a labeled covariance matrix. The first record is the
// header of variable names; each following record holds one row, optionally
// prefixed with its row label, as either a full row or the lower triangle
// up to the diagonal.
func ParseCSV(r io.Reader) (*pathmodelfit.Matrix, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read covariance CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: covariance CSV is empty", pathmodelfit.ErrInvalidInput)
	}

	header := records[0]
	if len(header) > 1 && strings.TrimSpace(header[0]) == "" {
		header = header[1:]
	}
	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = strings.TrimSpace(h)
	}

	rows := records[1:]
	if len(rows) != len(labels) {
		return nil, fmt.Errorf("%w: covariance CSV has %d data rows for %d variables", pathmodelfit.ErrInvalidInput, len(rows), len(labels))
	}

	grid := make([][]float64, len(rows))
	for i, rec := range rows {
		fields := rec
		if len(fields) > 0 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64); err != nil {
				// Leading non-numeric field is the row label; it must
				// agree with the header order.
				if got := strings.TrimSpace(fields[0]); got != labels[i] {
					return nil, fmt.Errorf("%w: covariance CSV row %d is labeled %q, header says %q", pathmodelfit.ErrInvalidInput, i+2, got, labels[i])
				}
				fields = fields[1:]
			}
		}
		row := make([]float64, len(fields))
		for j, field := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: covariance CSV cell at row %d, column %d: %v", pathmodelfit.ErrInvalidInput, i+2, j+1, err)
			}
			row[j] = v
		}
		grid[i] = row
	}
	return build(labels, grid)
}

// yamlMatrix mirrors the {labels, values} document shape.
type yamlMatrix struct {
	Labels []string    `yaml:"labels"`
	Values [][]float64 `yaml:"values"`
}

// ParseYAML reads a covariance matrix from a document with a labels list
// and a values grid.
func ParseYAML(r io.Reader) (*pathmodelfit.Matrix, error) {
	var doc yamlMatrix
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse covariance YAML: %w", err)
	}
	if len(doc.Labels) == 0 {
		return nil, fmt.Errorf("%w: covariance YAML has no labels", pathmodelfit.ErrInvalidInput)
	}
	if len(doc.Values) != len(doc.Labels) {
		return nil, fmt.Errorf("%w: covariance YAML has %d value rows for %d labels", pathmodelfit.ErrInvalidInput, len(doc.Values), len(doc.Labels))
	}
	return build(doc.Labels, doc.Values)
}

// build mirrors lower-triangular rows into a full grid and hands the
// result to the matrix constructor for validation.
func build(labels []string, grid [][]float64) (*pathmodelfit.Matrix, error) {
	n := len(labels)
	full := make([][]float64, n)
	for i := range full {
		full[i] = make([]float64, n)
	}
	for i, row := range grid {
		switch len(row) {
		case n:
			copy(full[i], row)
		case i + 1:
			for j, v := range row {
				full[i][j] = v
				full[j][i] = v
			}
		default:
			return nil, fmt.Errorf("%w: covariance row %d has %d values, want %d (full) or %d (lower triangle)", pathmodelfit.ErrInvalidInput, i+1, len(row), n, i+1)
		}
	}
	// A mix of full and triangular rows can leave the upper triangle of an
	// early full row out of sync with a later triangular one; the
	// constructor's symmetry check rejects that.
	return pathmodelfit.NewMatrix(labels, full)
}
