package pathmodelfit

import "context"

// Request describes a single estimation run. Exactly one of ModelText and
// Table must be set: ModelText submits a syntax specification, Table refits
// a caller-supplied free/fixed parameter table as a constraint set.
type Request struct {
	ModelText  string
	Table      *ParameterTable
	Sample     *Matrix
	SampleSize int
	Extras     Extras
}

// Extras selects optional artifacts to retrieve alongside the chi-square
// statistic. Engines may compute them lazily; the pipeline only asks for
// what the variant at hand needs.
type Extras struct {
	// ParameterTable requests the fitted free/fixed parameter table,
	// tagged with per-equation operators.
	ParameterTable bool
	// LatentCov requests the implied covariance matrix among the latent
	// variables, labeled by latent name.
	LatentCov bool
	// FitMeasures names classical fit measures to retrieve, e.g. "srmr".
	FitMeasures []string
}

// FitResult is a converged estimation outcome. Fields beyond ChiSquare and
// DF are populated only when the corresponding Extras flag asked for them.
type FitResult struct {
	ChiSquare   float64
	DF          float64
	Table       *ParameterTable
	LatentCov   *Matrix
	FitMeasures map[string]float64
}

// Engine is the external SEM estimation service. Implementations must
// return an error for non-converged or unidentified solutions rather than
// a degenerate FitResult; the pipeline treats any Fit error as fatal and
// performs no retry. Fit must honor context cancellation.
type Engine interface {
	Fit(ctx context.Context, req Request) (*FitResult, error)
}
