package pathmodelfit

import "math"

// z for a one-sided 90% bound.
const ciZ = 1.645

// rmseaP computes the path-specific RMSEA from the original and
// saturated-structural chi-squares. A negative excess noncentrality yields
// NaN; callers surface it as-is since clamping would hide the boundary
// condition.
func rmseaP(x2t, dft, x2ss, dfss, n float64) float64 {
	return math.Sqrt(((x2t - x2ss) - (dft - dfss)) / ((dft - dfss) * (n - 1)))
}

// rmseaPBounds approximates a 90% one-sided confidence bound pair for
// rmseaP. The distribution of the chi-square difference is approximated by
// moment matching with a Wilson-Hilferty style power transform; the
// transform is inverted at z = ±1.645 to recover noncentrality bounds.
// Degenerate inputs (zero structural df, negative radicands) propagate as
// non-finite values.
func rmseaPBounds(x2t, dft, x2ss, dfss, n float64) (lower, upper float64) {
	h := dft - dfss
	ncp := (x2t - x2ss) - h

	o := h + ncp
	p := 2*h + 4*ncp
	q := 8*h + 24*ncp
	r := 1 - (o*q)/(3*p*p)
	s := p/(2*o) - q/(4*p)
	t := 1 + (r/o)*(p*(r-1)/(2*o)+s)
	u := r * r * p / (o * o)
	se := math.Sqrt(u)

	lowerZ := t - ciZ*se
	upperZ := t + ciZ*se
	y := o*math.Pow(lowerZ, 1/r) - s
	z := o*math.Pow(upperZ, 1/r) - s
	ncpLo := y - h
	ncpHi := z - h

	return math.Sqrt(ncpLo / (h*n - 1)), math.Sqrt(ncpHi / (h*n - 1))
}

// nsciP computes the normed structural comparison index: the noncentrality
// removed by the estimated paths over the most that any structural model
// could remove. A vanishing denominator (null and saturated structural
// models fitting equally) yields a non-finite result.
func nsciP(x2t, dft, x2ss, dfss, x2sn, dfsn float64) float64 {
	return ((x2sn - x2t) - (dfsn - dft)) / ((x2sn - x2ss) - (dfsn - dfss))
}
