// Package pathmodelfit computes supplemental fit indices for the structural
// (path) portion of a fitted latent-variable structural equation model, as
// distinct from the commonly reported indices that mix measurement-model and
// structural-model misfit.
//
// Given a model specification in lavaan-style syntax, a sample covariance
// matrix, and a sample size, the package fits the original model through an
// external estimation engine (see the Engine interface and the engines/
// subpackages), derives three auxiliary specifications from it — a
// null-structural model with every regression path fixed to zero, a
// saturated-structural model containing only the measurement and covariance
// equations, and a latent-structural model refit against the implied latent
// covariance matrix — and combines the resulting chi-square statistics into:
//
//   - RMSEA-P, a root-mean-square-error-of-approximation isolated to the
//     path component, with a one-sided 90% confidence bound obtained from a
//     moment-matching approximation to the distribution of a difference of
//     noncentral chi-squares,
//   - NSCI-P, a normed structural comparison index, and
//   - the four Hancock-Mueller measures (SRMR.s, RMSEA.s, TLI.s, CFI.s)
//     computed on the latent-variable-implied covariance structure.
//
// The package performs no estimation itself: every fit is delegated to an
// Engine, and a failed or non-converged estimation aborts the whole
// computation. Degenerate statistics (negative radicands, zero structural
// degrees of freedom, vanishing denominators) are deliberately reported as
// non-finite values rather than clamped, since clamping would change their
// statistical meaning.
package pathmodelfit
