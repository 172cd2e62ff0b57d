package pathmodelfit

import (
	"fmt"
	"strings"
)

// DefaultPrecision is the significant-digit count used by Format when the
// caller passes a non-positive precision.
const DefaultPrecision = 4

// Measure is one named entry of a PathFit result.
type Measure struct {
	Name  string
	Value float64
}

// PathFit holds the eight supplemental indices for the structural part of
// a fitted model. Values may be NaN or infinite when the underlying
// statistics are degenerate; they are reported as computed.
type PathFit struct {
	RMSEAP      float64
	RMSEAPLower float64
	RMSEAPUpper float64
	NSCIP       float64
	SRMRS       float64
	RMSEAS      float64
	TLIS        float64
	CFIS        float64
}

// Measures returns the indices as an ordered name/value table. The order
// is fixed: rmsea.p, its confidence bounds, nsci.p, then the four
// structural-only classical measures.
func (f *PathFit) Measures() []Measure {
	return []Measure{
		{Name: "rmsea.p", Value: f.RMSEAP},
		{Name: "rmsea.p.ci.lower", Value: f.RMSEAPLower},
		{Name: "rmsea.p.ci.upper", Value: f.RMSEAPUpper},
		{Name: "nsci.p", Value: f.NSCIP},
		{Name: "srmr.s", Value: f.SRMRS},
		{Name: "rmsea.s", Value: f.RMSEAS},
		{Name: "tli.s", Value: f.TLIS},
		{Name: "cfi.s", Value: f.CFIS},
	}
}

// Value looks an index up by its table name.
func (f *PathFit) Value(name string) (float64, bool) {
	for _, m := range f.Measures() {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// Format renders the table with the given number of significant digits,
// one measure per line. A non-positive precision selects DefaultPrecision.
func (f *PathFit) Format(precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	measures := f.Measures()
	width := 0
	for _, m := range measures {
		if len(m.Name) > width {
			width = len(m.Name)
		}
	}
	var b strings.Builder
	for _, m := range measures {
		fmt.Fprintf(&b, "%-*s  %.*g\n", width, m.Name, precision, m.Value)
	}
	return b.String()
}

// String renders the table at the default precision.
func (f *PathFit) String() string { return f.Format(DefaultPrecision) }
