package pathmodelfit

import (
	"fmt"
	"math"
)

// symTolerance bounds the asymmetry accepted from rounded input files.
const symTolerance = 1e-8

// Matrix is an immutable labeled symmetric matrix, used for sample and
// implied covariance matrices. The zero value is not usable; construct one
// with NewMatrix.
type Matrix struct {
	labels []string
	index  map[string]int
	values [][]float64
}

// NewMatrix validates and copies the given labels and cell values. The
// values must form a square matrix matching the label count, symmetric up
// to a small rounding tolerance, and the labels must be unique.
func NewMatrix(labels []string, values [][]float64) (*Matrix, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: covariance matrix has no variables", ErrInvalidInput)
	}
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		if label == "" {
			return nil, fmt.Errorf("%w: covariance label %d is empty", ErrInvalidInput, i+1)
		}
		if prev, dup := index[label]; dup {
			return nil, fmt.Errorf("%w: covariance label %q appears at positions %d and %d", ErrInvalidInput, label, prev+1, i+1)
		}
		index[label] = i
	}
	if len(values) != len(labels) {
		return nil, fmt.Errorf("%w: covariance matrix has %d rows for %d labels", ErrInvalidInput, len(values), len(labels))
	}
	copied := make([][]float64, len(values))
	for i, row := range values {
		if len(row) != len(labels) {
			return nil, fmt.Errorf("%w: covariance row %q has %d columns for %d labels", ErrInvalidInput, labels[i], len(row), len(labels))
		}
		copied[i] = make([]float64, len(row))
		copy(copied[i], row)
	}
	for i := range copied {
		for j := i + 1; j < len(copied); j++ {
			if d := math.Abs(copied[i][j] - copied[j][i]); d > symTolerance {
				return nil, fmt.Errorf("%w: covariance matrix is not symmetric at (%s, %s)", ErrInvalidInput, labels[i], labels[j])
			}
		}
	}
	return &Matrix{labels: copyLabels(labels), index: index, values: copied}, nil
}

func copyLabels(labels []string) []string {
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Dim returns the number of variables.
func (m *Matrix) Dim() int { return len(m.labels) }

// Labels returns the variable names in matrix order.
func (m *Matrix) Labels() []string { return copyLabels(m.labels) }

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.values[i][j] }

// Value looks a cell up by its row and column labels.
func (m *Matrix) Value(row, col string) (float64, bool) {
	i, ok := m.index[row]
	if !ok {
		return 0, false
	}
	j, ok := m.index[col]
	if !ok {
		return 0, false
	}
	return m.values[i][j], true
}

// Values returns a copy of the full value grid in label order.
func (m *Matrix) Values() [][]float64 {
	out := make([][]float64, len(m.values))
	for i, row := range m.values {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// Reorder returns a new Matrix holding the same cells permuted into the
// given label order. The labels must be exactly the matrix's own label set.
func (m *Matrix) Reorder(labels []string) (*Matrix, error) {
	if len(labels) != len(m.labels) {
		return nil, fmt.Errorf("%w: reorder wants %d labels, matrix has %d", ErrInvalidInput, len(labels), len(m.labels))
	}
	perm := make([]int, len(labels))
	seen := make(map[string]bool, len(labels))
	for i, label := range labels {
		j, ok := m.index[label]
		if !ok {
			return nil, fmt.Errorf("%w: reorder label %q is not in the matrix", ErrInvalidInput, label)
		}
		if seen[label] {
			return nil, fmt.Errorf("%w: reorder label %q repeats", ErrInvalidInput, label)
		}
		seen[label] = true
		perm[i] = j
	}
	values := make([][]float64, len(labels))
	for i := range labels {
		values[i] = make([]float64, len(labels))
		for j := range labels {
			values[i][j] = m.values[perm[i]][perm[j]]
		}
	}
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}
	return &Matrix{labels: copyLabels(labels), index: index, values: values}, nil
}
