package rest

import (
	"math"

	"github.com/tmsalab/pathmodelfit"
)

// Wire types for the engine's /v1/fit endpoint. Non-finite statistics come
// back as JSON null, so every numeric slot that can degenerate is a
// pointer.

type fitRequest struct {
	Model          string         `json:"model,omitempty"`
	ParameterTable []wireRow      `json:"parameter_table,omitempty"`
	SampleCov      wireMatrix     `json:"sample_cov"`
	SampleNobs     int            `json:"sample_nobs"`
	Options        requestOptions `json:"options"`
}

type requestOptions struct {
	ParameterTable   bool     `json:"parameter_table,omitempty"`
	ImpliedLatentCov bool     `json:"implied_latent_cov,omitempty"`
	FitMeasures      []string `json:"fit_measures,omitempty"`
}

type fitResponse struct {
	Converged      bool                `json:"converged"`
	Error          string              `json:"error,omitempty"`
	ChiSquare      *float64            `json:"chisq"`
	DF             *float64            `json:"df"`
	ParameterTable []wireRow           `json:"parameter_table,omitempty"`
	LatentCov      *wireMatrix         `json:"latent_cov,omitempty"`
	FitMeasures    map[string]*float64 `json:"fit_measures,omitempty"`
}

type wireRow struct {
	Lhs   string  `json:"lhs"`
	Op    string  `json:"op"`
	Rhs   string  `json:"rhs"`
	Free  int     `json:"free"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

type wireMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

func encodeRequest(req pathmodelfit.Request) fitRequest {
	out := fitRequest{
		Model: req.ModelText,
		SampleCov: wireMatrix{
			Labels: req.Sample.Labels(),
			Values: req.Sample.Values(),
		},
		SampleNobs: req.SampleSize,
		Options: requestOptions{
			ParameterTable:   req.Extras.ParameterTable,
			ImpliedLatentCov: req.Extras.LatentCov,
			FitMeasures:      req.Extras.FitMeasures,
		},
	}
	if req.Table != nil {
		out.ParameterTable = encodeRows(req.Table.Rows())
	}
	return out
}

func encodeRows(rows []pathmodelfit.ParameterRow) []wireRow {
	out := make([]wireRow, len(rows))
	for i, r := range rows {
		out[i] = wireRow{Lhs: r.Lhs, Op: r.Op, Rhs: r.Rhs, Free: r.Free, Value: r.Value, Label: r.Label}
	}
	return out
}

func decodeRows(rows []wireRow) *pathmodelfit.ParameterTable {
	out := make([]pathmodelfit.ParameterRow, len(rows))
	for i, r := range rows {
		out[i] = pathmodelfit.ParameterRow{Lhs: r.Lhs, Op: r.Op, Rhs: r.Rhs, Free: r.Free, Value: r.Value, Label: r.Label}
	}
	return pathmodelfit.NewParameterTable(out)
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
