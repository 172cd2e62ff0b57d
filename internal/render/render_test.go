package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tmsalab/pathmodelfit"
)

func fixture() *pathmodelfit.PathFit {
	return &pathmodelfit.PathFit{
		RMSEAP:      0.169030850945703,
		RMSEAPLower: 0.076035673741693,
		RMSEAPUpper: 0.241714627235968,
		NSCIP:       0.874762808349146,
		SRMRS:       0.021,
		RMSEAS:      0.067,
		TLIS:        0.98,
		CFIS:        0.99,
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Format{
		"table": FormatTable,
		"JSON":  FormatJSON,
		" csv ": FormatCSV,
		"yaml":  FormatYAML,
		"":      FormatTable,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestWrite_Table(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixture(), Options{Format: FormatTable}))

	out := buf.String()
	assert.Contains(t, out, "rmsea.p           0.169\n")
	assert.Contains(t, out, "nsci.p            0.8748\n")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 8)
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixture(), Options{Format: FormatJSON}))

	var got map[string]*float64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 8)
	require.NotNil(t, got["rmsea.p"])
	assert.InDelta(t, 0.169030850945703, *got["rmsea.p"], 1e-12)

	// Key order is fixed, not map-random.
	s := buf.String()
	assert.True(t, strings.HasPrefix(s, `{"rmsea.p":`))
	assert.Less(t, strings.Index(s, `"nsci.p"`), strings.Index(s, `"srmr.s"`))
}

// JSON cannot express NaN; degenerate values must come through as null.
func TestWrite_JSONNonFinite(t *testing.T) {
	t.Parallel()

	f := fixture()
	f.RMSEAPLower = math.NaN()
	f.NSCIP = math.Inf(-1)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, Options{Format: FormatJSON}))

	var got map[string]*float64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Nil(t, got["rmsea.p.ci.lower"])
	assert.Nil(t, got["nsci.p"])
	require.NotNil(t, got["rmsea.p.ci.upper"])
}

func TestWrite_CSV(t *testing.T) {
	t.Parallel()

	f := fixture()
	f.TLIS = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, Options{Format: FormatCSV}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "rmsea.p", records[0][0])
	assert.Equal(t, "cfi.s", records[0][7])
	assert.Equal(t, "0.169", records[1][0])
	assert.Equal(t, "NaN", records[1][6])
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	f := fixture()
	f.RMSEAPLower = math.NaN()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, Options{Format: FormatYAML}))

	var got map[string]float64
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 8)
	assert.InDelta(t, 0.874762808349146, got["nsci.p"], 1e-12)
	// YAML keeps NaN as a real value.
	assert.True(t, math.IsNaN(got["rmsea.p.ci.lower"]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "rmsea.p:"))
}

func TestWrite_Precision(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, fixture(), Options{Format: FormatTable, Precision: 2}))
	assert.Contains(t, buf.String(), "rmsea.p           0.17\n")

	buf.Reset()
	require.NoError(t, Write(&buf, fixture(), Options{Format: FormatCSV, Precision: 6}))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "0.169031", records[1][0])
}
