package pathmodelfit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeEngine serves canned fit results, routed by request shape: a
// table-constrained request is the null-structural refit, a request asking
// for the latent covariance is the saturated-structural one, a request
// asking for fit measures is the latent refit, and anything else is the
// original fit. Shape routing keeps the fake order-independent, since the
// first two derived refits run concurrently.
type fakeEngine struct {
	original  *FitResult
	null      *FitResult
	saturated *FitResult
	latent    *FitResult

	// failVariant makes the matching request return failErr.
	failVariant Variant
	failErr     error

	mu       sync.Mutex
	requests []Request
	spans    map[Variant][2]time.Time
	delay    time.Duration
}

func classifyRequest(req Request) Variant {
	switch {
	case req.Table != nil:
		return VariantNullStructural
	case req.Extras.LatentCov:
		return VariantSaturatedStructural
	case len(req.Extras.FitMeasures) > 0:
		return VariantLatent
	default:
		return VariantOriginal
	}
}

func (e *fakeEngine) Fit(ctx context.Context, req Request) (*FitResult, error) {
	variant := classifyRequest(req)
	start := time.Now()
	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	e.mu.Lock()
	e.requests = append(e.requests, req)
	if e.spans == nil {
		e.spans = make(map[Variant][2]time.Time)
	}
	e.spans[variant] = [2]time.Time{start, time.Now()}
	e.mu.Unlock()

	if e.failErr != nil && e.failVariant == variant {
		return nil, e.failErr
	}
	switch variant {
	case VariantNullStructural:
		return e.null, nil
	case VariantSaturatedStructural:
		return e.saturated, nil
	case VariantLatent:
		return e.latent, nil
	default:
		return e.original, nil
	}
}

// requestFor returns the recorded request for a variant, failing the test
// if it never arrived.
func (e *fakeEngine) requestFor(t *testing.T, variant Variant) Request {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, req := range e.requests {
		if classifyRequest(req) == variant {
			return req
		}
	}
	t.Fatalf("engine never received a %s request", variant)
	return Request{}
}

func (e *fakeEngine) requestCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.requests)
}

func (e *fakeEngine) span(t *testing.T, variant Variant) (time.Time, time.Time) {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	span, ok := e.spans[variant]
	require.True(t, ok, "engine never received a %s request", variant)
	return span[0], span[1]
}

// mediationEngine wires the canned statistics for the four-latent
// mediation fixture. The latent covariance labels come back alphabetical
// on purpose, so the pipeline has to permute them into model order.
func mediationEngine(t *testing.T) *fakeEngine {
	t.Helper()
	lcov, err := NewMatrix(
		[]string{"Jobcom", "Jobsat", "Ldrrew", "Orgcom"},
		[][]float64{
			{1.00, 0.52, 0.31, 0.44},
			{0.52, 1.00, 0.40, 0.60},
			{0.31, 0.40, 1.00, 0.35},
			{0.44, 0.60, 0.35, 1.00},
		},
	)
	require.NoError(t, err)

	return &fakeEngine{
		original:  &FitResult{ChiSquare: 85.3, DF: 50, Table: fittedMediationTable()},
		null:      &FitResult{ChiSquare: 180.5, DF: 53},
		saturated: &FitResult{ChiSquare: 70.1, DF: 48, LatentCov: lcov},
		latent: &FitResult{
			ChiSquare:   4.1,
			DF:          2,
			FitMeasures: map[string]float64{"srmr": 0.021, "rmsea": 0.067, "tli": 0.98, "cfi": 0.99},
		},
	}
}

// fittedMediationTable builds the parameter table an engine would return
// for the mediation fixture: per latent, a fixed marker loading and free
// remaining loadings, then the three regressions, the exogenous latent
// covariance, and free variances throughout.
func fittedMediationTable() *ParameterTable {
	free := 0
	nextFree := func() int {
		free++
		return free
	}

	var rows []ParameterRow
	indicators := []struct {
		latent string
		names  []string
	}{
		{"Ldrrew", []string{"x1", "x2", "x3"}},
		{"Jobcom", []string{"x4", "x5", "x6"}},
		{"Jobsat", []string{"x7", "x8", "x9"}},
		{"Orgcom", []string{"x10", "x11", "x12"}},
	}
	for _, group := range indicators {
		for i, name := range group.names {
			row := ParameterRow{Lhs: group.latent, Op: "=~", Rhs: name}
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
		rows = append(rows, ParameterRow{Lhs: path[0], Op: "~", Rhs: path[1], Free: nextFree(), Value: 0.4})
	}
	rows = append(rows, ParameterRow{Lhs: "Ldrrew", Op: "~~", Rhs: "Jobcom", Free: nextFree(), Value: 0.31})
	for _, group := range indicators {
		rows = append(rows, ParameterRow{Lhs: group.latent, Op: "~~", Rhs: group.latent, Free: nextFree(), Value: 1})
	}
	for _, group := range indicators {
		for _, name := range group.names {
			rows = append(rows, ParameterRow{Lhs: name, Op: "~~", Rhs: name, Free: nextFree(), Value: 0.5})
		}
	}
	return NewParameterTable(rows)
}

// sampleCovFixture is a well-behaved 12x12 covariance matrix over x1..x12.
func sampleCovFixture(t *testing.T) *Matrix {
	t.Helper()
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
	m, err := NewMatrix(labels, values)
	require.NoError(t, err)
	return m
}

// fitMediation runs the original fit against the fake engine.
func fitMediation(t *testing.T, engine *fakeEngine) *FittedModel {
	t.Helper()
	fitted, err := Fit(context.Background(), engine, mediationSyntax, sampleCovFixture(t), 232)
	require.NoError(t, err)
	return fitted
}
