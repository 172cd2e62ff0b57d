// Package enginetest provides an in-memory estimation engine for tests.
// Responses are routed by request shape rather than call order, because
// the pipeline runs two of the derived refits concurrently.
package enginetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmsalab/pathmodelfit"
)

// VariantOf classifies a request the way the pipeline shapes them: a
// table-constrained request is the null-structural refit, a latent
// covariance request is the saturated-structural one, a fit-measure
// request is the latent refit, everything else is an original fit.
func VariantOf(req pathmodelfit.Request) pathmodelfit.Variant {
	switch {
	case req.Table != nil:
		return pathmodelfit.VariantNullStructural
	case req.Extras.LatentCov:
		return pathmodelfit.VariantSaturatedStructural
	case len(req.Extras.FitMeasures) > 0:
		return pathmodelfit.VariantLatent
	default:
		return pathmodelfit.VariantOriginal
	}
}

// Fake serves canned results per variant and records every request.
type Fake struct {
	Results map[pathmodelfit.Variant]*pathmodelfit.FitResult
	Errs    map[pathmodelfit.Variant]error

	mu    sync.Mutex
	calls []pathmodelfit.Request
}

// Fit implements pathmodelfit.Engine.
func (f *Fake) Fit(_ context.Context, req pathmodelfit.Request) (*pathmodelfit.FitResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	variant := VariantOf(req)
	if err := f.Errs[variant]; err != nil {
		return nil, err
	}
	res, ok := f.Results[variant]
	if !ok {
		return nil, fmt.Errorf("no canned result for %s fit", variant)
	}
	return res, nil
}

// Calls returns a copy of the recorded requests in arrival order.
func (f *Fake) Calls() []pathmodelfit.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pathmodelfit.Request, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallFor returns the first recorded request of the given variant.
func (f *Fake) CallFor(variant pathmodelfit.Variant) (pathmodelfit.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, req := range f.calls {
		if VariantOf(req) == variant {
			return req, true
		}
	}
	return pathmodelfit.Request{}, false
}

// MediationModel is a four-latent mediation specification over twelve
// indicators, the reference scenario used across the repo's tests.
const MediationModel = `Ldrrew =~ x1 + x2 + x3
Jobcom =~ x4 + x5 + x6
Jobsat =~ x7 + x8 + x9
Orgcom =~ x10 + x11 + x12
Jobsat ~ Ldrrew + Jobcom
Orgcom ~ Jobsat`

// MediationSampleSize is the observation count of the reference scenario.
const MediationSampleSize = 232

// MediationSample builds a well-behaved 12x12 sample covariance matrix
// for MediationModel.
func MediationSample() *pathmodelfit.Matrix {
	labels := make([]string, 12)
	values := make([][]float64, 12)
	for i := range labels {
		labels[i] = fmt.Sprintf("x%d", i+1)
		values[i] = make([]float64, 12)
		for j := range values[i] {
			values[i][j] = 0.3
		}
		values[i][i] = 1
	}
	m, err := pathmodelfit.NewMatrix(labels, values)
	if err != nil {
		panic(err)
	}
	return m
}

// NewMediation wires a Fake with converged statistics for MediationModel.
// The latent covariance labels are deliberately out of model order so that
// callers exercise the permutation step.
func NewMediation() *Fake {
	lcov, err := pathmodelfit.NewMatrix(
		[]string{"Jobcom", "Jobsat", "Ldrrew", "Orgcom"},
		[][]float64{
			{1.00, 0.52, 0.31, 0.44},
			{0.52, 1.00, 0.40, 0.60},
			{0.31, 0.40, 1.00, 0.35},
			{0.44, 0.60, 0.35, 1.00},
		},
	)
	if err != nil {
		panic(err)
	}
	return &Fake{
		Results: map[pathmodelfit.Variant]*pathmodelfit.FitResult{
			pathmodelfit.VariantOriginal: {
				ChiSquare: 85.3,
				DF:        50,
				Table:     mediationTable(),
			},
			pathmodelfit.VariantNullStructural: {
				ChiSquare: 180.5,
				DF:        53,
			},
			pathmodelfit.VariantSaturatedStructural: {
				ChiSquare: 70.1,
				DF:        48,
				LatentCov: lcov,
			},
			pathmodelfit.VariantLatent: {
				ChiSquare:   4.1,
				DF:          2,
				FitMeasures: map[string]float64{"srmr": 0.021, "rmsea": 0.067, "tli": 0.98, "cfi": 0.99},
			},
		},
	}
}

func mediationTable() *pathmodelfit.ParameterTable {
	free := 0
	nextFree := func() int {
		free++
		return free
	}

	var rows []pathmodelfit.ParameterRow
	groups := []struct {
		latent string
		names  []string
	}{
		{"Ldrrew", []string{"x1", "x2", "x3"}},
		{"Jobcom", []string{"x4", "x5", "x6"}},
		{"Jobsat", []string{"x7", "x8", "x9"}},
		{"Orgcom", []string{"x10", "x11", "x12"}},
	}
	for _, g := range groups {
		for i, name := range g.names {
			row := pathmodelfit.ParameterRow{Lhs: g.latent, Op: "=~", Rhs: name}
			if i == 0 {
				row.Value = 1
			} else {
				row.Free = nextFree()
				row.Value = 0.85
			}
			rows = append(rows, row)
		}
	}
	for _, path := range [][2]string{{"Jobsat", "Ldrrew"}, {"Jobsat", "Jobcom"}, {"Orgcom", "Jobsat"}} {
		rows = append(rows, pathmodelfit.ParameterRow{Lhs: path[0], Op: "~", Rhs: path[1], Free: nextFree(), Value: 0.4})
	}
	rows = append(rows, pathmodelfit.ParameterRow{Lhs: "Ldrrew", Op: "~~", Rhs: "Jobcom", Free: nextFree(), Value: 0.31})
	for _, g := range groups {
		rows = append(rows, pathmodelfit.ParameterRow{Lhs: g.latent, Op: "~~", Rhs: g.latent, Free: nextFree(), Value: 1})
	}
	for _, g := range groups {
		for _, name := range g.names {
			rows = append(rows, pathmodelfit.ParameterRow{Lhs: name, Op: "~~", Rhs: name, Free: nextFree(), Value: 0.5})
		}
	}
	return pathmodelfit.NewParameterTable(rows)
}
