package pathmodelfit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	engine := mediationEngine(t)

	// --- Act ---
	fitted, err := Fit(context.Background(), engine, mediationSyntax, sampleCovFixture(t), 232)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 85.3, fitted.ChiSquare())
	assert.Equal(t, 50.0, fitted.DF())
	assert.Equal(t, 232, fitted.SampleSize())
	assert.Equal(t, 6, fitted.Model().Len())
	assert.Equal(t, 12, fitted.Sample().Dim())
	assert.Equal(t, 28, fitted.Table().FreeCount())

	// The engine receives the user's syntax verbatim, with the fitted
	// parameter table requested for the later null-structural refit.
	require.Equal(t, 1, engine.requestCount())
	req := engine.requestFor(t, VariantOriginal)
	assert.Equal(t, mediationSyntax, req.ModelText)
	assert.Nil(t, req.Table)
	assert.True(t, req.Extras.ParameterTable)
	assert.False(t, req.Extras.LatentCov)
	assert.Empty(t, req.Extras.FitMeasures)
	assert.Equal(t, 232, req.SampleSize)
}

func TestFit_InvalidInput(t *testing.T) {
	t.Parallel()

	engine := mediationEngine(t)
	sample := sampleCovFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		act  func() error
	}{
		{"nil engine", func() error {
			_, err := Fit(ctx, nil, mediationSyntax, sample, 232)
			return err
		}},
		{"nil sample", func() error {
			_, err := Fit(ctx, engine, mediationSyntax, nil, 232)
			return err
		}},
		{"sample size too small", func() error {
			_, err := Fit(ctx, engine, mediationSyntax, sample, 1)
			return err
		}},
		{"unparseable syntax", func() error {
			_, err := Fit(ctx, engine, "f a b", sample, 232)
			return err
		}},
		{"indicator missing from sample", func() error {
			_, err := Fit(ctx, engine, "f =~ x1 + x99\ny ~ f", sample, 232)
			return err
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.act()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	// Input validation happens before any engine call.
	assert.Zero(t, engine.requestCount())
}

func TestFit_EstimationFailure(t *testing.T) {
	t.Parallel()

	engine := mediationEngine(t)
	engine.failVariant = VariantOriginal
	engine.failErr = ErrNotConverged

	_, err := Fit(context.Background(), engine, mediationSyntax, sampleCovFixture(t), 232)
	require.Error(t, err)

	var estErr *EstimationError
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, VariantOriginal, estErr.Variant)
	assert.ErrorIs(t, err, ErrNotConverged)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestFit_MissingParameterTable(t *testing.T) {
	t.Parallel()

	engine := mediationEngine(t)
	engine.original = &FitResult{ChiSquare: 85.3, DF: 50}

	_, err := Fit(context.Background(), engine, mediationSyntax, sampleCovFixture(t), 232)
	require.Error(t, err)

	var estErr *EstimationError
	require.ErrorAs(t, err, &estErr)
	assert.Equal(t, VariantOriginal, estErr.Variant)
}
