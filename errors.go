package pathmodelfit

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks problems with the caller-supplied model syntax,
// covariance matrix, or sample size. It is detectable with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotConverged is reported when the estimation engine finishes without
// reaching a converged solution.
var ErrNotConverged = errors.New("estimation did not converge")

// Variant names one of the model fits performed during a computation.
type Variant string

const (
	// VariantOriginal is the user-specified model as written.
	VariantOriginal Variant = "original"
	// VariantNullStructural is the original model with every structural
	// coefficient fixed to zero.
	VariantNullStructural Variant = "null-structural"
	// VariantSaturatedStructural keeps only the measurement and covariance
	// equations, leaving the latent covariances free.
	VariantSaturatedStructural Variant = "saturated-structural"
	// VariantLatent refits the structural equations against the implied
	// latent covariance matrix.
	VariantLatent Variant = "latent"
)

// EstimationError wraps an engine failure with the model variant that was
// being fitted when it happened.
type EstimationError struct {
	Variant Variant
	Err     error
}

func (e *EstimationError) Error() string {
	return fmt.Sprintf("estimating %s model: %v", e.Variant, e.Err)
}

func (e *EstimationError) Unwrap() error { return e.Err }
