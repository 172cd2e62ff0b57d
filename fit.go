package pathmodelfit

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmsalab/pathmodelfit/internal/ctxlog"
)

// FittedModel is a converged fit of the user's original specification. It
// is the only accepted input to Compute: the unexported fields mean a value
// can only come from Fit, so downstream code never has to guess whether an
// arbitrary object really came from the estimation engine.
type FittedModel struct {
	engine     Engine
	model      *Model
	sample     *Matrix
	sampleSize int
	chiSquare  float64
	df         float64
	table      *ParameterTable
}

// Fit parses the model syntax, validates it against the sample covariance
// matrix, and estimates the original model through the engine, retaining
// the fitted parameter table for the derived refits. A non-converged
// estimation is returned as an EstimationError; the call performs no retry.
func Fit(ctx context.Context, engine Engine, modelText string, sample *Matrix, sampleSize int) (*FittedModel, error) {
	if engine == nil {
		return nil, fmt.Errorf("%w: estimation engine is nil", ErrInvalidInput)
	}
	if sample == nil {
		return nil, fmt.Errorf("%w: sample covariance matrix is nil", ErrInvalidInput)
	}
	if sampleSize < 2 {
		return nil, fmt.Errorf("%w: sample size %d is too small to fit anything", ErrInvalidInput, sampleSize)
	}
	model, err := ParseModel(modelText)
	if err != nil {
		return nil, err
	}
	for _, name := range model.ObservedNames() {
		if _, ok := sample.Value(name, name); !ok {
			return nil, fmt.Errorf("%w: indicator %q is not in the sample covariance matrix", ErrInvalidInput, name)
		}
	}

	log := ctxlog.FromContext(ctx)
	log.Debug("Fitting original model",
		"equations", model.Len(),
		"variables", sample.Dim(),
		"sample_size", sampleSize)

	res, err := engine.Fit(ctx, Request{
		ModelText:  modelText,
		Sample:     sample,
		SampleSize: sampleSize,
		Extras:     Extras{ParameterTable: true},
	})
	if err != nil {
		return nil, &EstimationError{Variant: VariantOriginal, Err: err}
	}
	if res.Table == nil {
		return nil, &EstimationError{Variant: VariantOriginal, Err: errors.New("engine returned no parameter table")}
	}
	log.Debug("Original model converged",
		"chisq", res.ChiSquare,
		"df", res.DF,
		"free_parameters", res.Table.FreeCount())

	return &FittedModel{
		engine:     engine,
		model:      model,
		sample:     sample,
		sampleSize: sampleSize,
		chiSquare:  res.ChiSquare,
		df:         res.DF,
		table:      res.Table,
	}, nil
}

// Model returns the parsed specification.
func (f *FittedModel) Model() *Model { return f.model }

// Sample returns the sample covariance matrix the model was fit against.
func (f *FittedModel) Sample() *Matrix { return f.sample }

// SampleSize returns the number of observations.
func (f *FittedModel) SampleSize() int { return f.sampleSize }

// ChiSquare returns the original fit's test statistic.
func (f *FittedModel) ChiSquare() float64 { return f.chiSquare }

// DF returns the original fit's degrees of freedom.
func (f *FittedModel) DF() float64 { return f.df }

// Table returns the original fit's free/fixed parameter table.
func (f *FittedModel) Table() *ParameterTable { return f.table }
