package pathmodelfit

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tmsalab/pathmodelfit/internal/ctxlog"
)

// structuralFitMeasures are the classical measures retrieved from the
// latent-structural refit and reported with a ".s" suffix.
var structuralFitMeasures = []string{"srmr", "rmsea", "tli", "cfi"}

// Compute estimates the three derived models and combines their statistics
// with the original fit into the eight supplemental indices.
//
// The null-structural and saturated-structural refits have no data
// dependency on each other and run concurrently; the latent-structural
// refit consumes the saturated-structural solution's implied latent
// covariance matrix and runs after it. Any estimation failure cancels the
// remaining work and aborts the computation; there are no partial results.
// Degenerate statistics surface as non-finite values in the returned table.
func (f *FittedModel) Compute(ctx context.Context) (*PathFit, error) {
	if f == nil || f.engine == nil {
		return nil, fmt.Errorf("%w: not a fitted model produced by Fit", ErrInvalidInput)
	}
	log := ctxlog.FromContext(ctx)

	var nullRes, satRes *FitResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := f.engine.Fit(gctx, Request{
			Table:      nullStructuralTable(f.table),
			Sample:     f.sample,
			SampleSize: f.sampleSize,
		})
		if err != nil {
			return &EstimationError{Variant: VariantNullStructural, Err: err}
		}
		nullRes = res
		return nil
	})
	g.Go(func() error {
		res, err := f.engine.Fit(gctx, Request{
			ModelText:  saturatedStructuralModel(f.model).Text(),
			Sample:     f.sample,
			SampleSize: f.sampleSize,
			Extras:     Extras{LatentCov: true},
		})
		if err != nil {
			return &EstimationError{Variant: VariantSaturatedStructural, Err: err}
		}
		satRes = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("Derived models converged",
		"null_chisq", nullRes.ChiSquare,
		"null_df", nullRes.DF,
		"saturated_chisq", satRes.ChiSquare,
		"saturated_df", satRes.DF)

	lcov, err := f.impliedLatentCov(satRes)
	if err != nil {
		return nil, err
	}
	latentRes, err := f.engine.Fit(ctx, Request{
		ModelText:  latentStructuralModel(f.model).Text(),
		Sample:     lcov,
		SampleSize: f.sampleSize,
		Extras:     Extras{FitMeasures: structuralFitMeasures},
	})
	if err != nil {
		return nil, &EstimationError{Variant: VariantLatent, Err: err}
	}
	log.Debug("Latent-structural model converged",
		"chisq", latentRes.ChiSquare,
		"df", latentRes.DF)

	n := float64(f.sampleSize)
	lower, upper := rmseaPBounds(f.chiSquare, f.df, satRes.ChiSquare, satRes.DF, n)
	return &PathFit{
		RMSEAP:      rmseaP(f.chiSquare, f.df, satRes.ChiSquare, satRes.DF, n),
		RMSEAPLower: lower,
		RMSEAPUpper: upper,
		NSCIP:       nsciP(f.chiSquare, f.df, satRes.ChiSquare, satRes.DF, nullRes.ChiSquare, nullRes.DF),
		SRMRS:       fitMeasure(latentRes, "srmr"),
		RMSEAS:      fitMeasure(latentRes, "rmsea"),
		TLIS:        fitMeasure(latentRes, "tli"),
		CFIS:        fitMeasure(latentRes, "cfi"),
	}, nil
}

// impliedLatentCov validates the engine's latent covariance matrix and
// permutes it into the model's latent-name order, which is defined by the
// first appearance of each latent on the left of a measurement equation.
func (f *FittedModel) impliedLatentCov(sat *FitResult) (*Matrix, error) {
	if sat.LatentCov == nil {
		return nil, &EstimationError{
			Variant: VariantSaturatedStructural,
			Err:     errors.New("engine returned no implied latent covariance matrix"),
		}
	}
	lcov, err := sat.LatentCov.Reorder(f.model.LatentNames())
	if err != nil {
		return nil, &EstimationError{Variant: VariantSaturatedStructural, Err: err}
	}
	return lcov, nil
}

func fitMeasure(res *FitResult, name string) float64 {
	v, ok := res.FitMeasures[name]
	if !ok {
		return math.NaN()
	}
	return v
}
