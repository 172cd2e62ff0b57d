package pathmodelfit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRMSEAP(t *testing.T) {
	t.Parallel()

	got := rmseaP(85.3, 50, 70.1, 48, 232)
	assert.InDelta(t, 0.169030850945703, got, 1e-12)
}

// When the chi-square difference does not exceed the df difference the
// excess noncentrality is negative and the index has no real value. It
// must come back as NaN, not clamped to zero.
func TestRMSEAP_NegativeNoncentrality(t *testing.T) {
	t.Parallel()

	got := rmseaP(54.0, 50, 54.2, 48, 232)
	assert.True(t, math.IsNaN(got))
}

func TestRMSEAP_ZeroStructuralDF(t *testing.T) {
	t.Parallel()

	// dft == dfss divides by zero; a positive chi-square excess gives +Inf.
	got := rmseaP(62.3, 50, 54.2, 50, 232)
	assert.True(t, math.IsInf(got, 1))

	lower, upper := rmseaPBounds(62.3, 50, 54.2, 50, 232)
	assert.True(t, math.IsNaN(lower))
	assert.True(t, math.IsNaN(upper))
}

func TestRMSEAPBounds(t *testing.T) {
	t.Parallel()

	lower, upper := rmseaPBounds(85.3, 50, 70.1, 48, 232)
	assert.InDelta(t, 0.076035673741693, lower, 1e-9)
	assert.InDelta(t, 0.241714627235968, upper, 1e-9)
}

// For finite results the pair must be ordered. The transform is not
// symmetric around the point estimate, so only lower <= upper is
// guaranteed, not that the point estimate sits inside.
func TestRMSEAPBounds_Ordering(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                   string
		x2t, dft, x2ss, dfss, n float64
	}{
		{"moderate misfit", 85.3, 50, 70.1, 48, 232},
		{"small structural df", 120.0, 60, 80.0, 55, 500},
		{"large sample", 300.0, 100, 150.0, 90, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lower, upper := rmseaPBounds(tc.x2t, tc.dft, tc.x2ss, tc.dfss, tc.n)
			require.False(t, math.IsNaN(lower))
			require.False(t, math.IsNaN(upper))
			assert.LessOrEqual(t, lower, upper)
		})
	}
}

func TestRMSEAPBounds_NegativeNoncentrality(t *testing.T) {
	t.Parallel()

	// The power transform hits a negative base and the whole inversion
	// degenerates to NaN on both sides.
	lower, upper := rmseaPBounds(54.0, 50, 54.2, 48, 232)
	assert.True(t, math.IsNaN(lower))
	assert.True(t, math.IsNaN(upper))
}

func TestNSCIP(t *testing.T) {
	t.Parallel()

	got := nsciP(85.3, 50, 70.1, 48, 180.5, 53)
	assert.InDelta(t, 0.874762808349146, got, 1e-12)
}

// A null-structural model fitting exactly as well as the original means
// the paths contribute nothing, and the index is exactly zero.
func TestNSCIP_ZeroStructuralContribution(t *testing.T) {
	t.Parallel()

	got := nsciP(62.3, 50, 54.2, 48, 62.3, 50)
	assert.Zero(t, got)
}

func TestNSCIP_ZeroDenominator(t *testing.T) {
	t.Parallel()

	// Null and saturated structural models fitting equally leaves nothing
	// to norm by; the division yields an infinity, reported as-is.
	got := nsciP(62.3, 50, 54.2, 48, 59.2, 53)
	assert.True(t, math.IsInf(got, -1))
}
