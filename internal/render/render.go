// Package render writes a computed index table to an output stream in one
// of four formats. The aligned table and CSV honor the significant-digit
// precision option; JSON and YAML carry full-precision values for machine
// consumers. Non-finite values become null in JSON (which cannot express
// them), .nan/.inf in YAML, and literal NaN/Inf text in the table and CSV.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmsalab/pathmodelfit"
)

// Format selects an output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json, csv, or yaml)", s)
	}
}

// Options controls rendering.
type Options struct {
	Format    Format
	Precision int
}

// Write renders the result to w.
func Write(w io.Writer, result *pathmodelfit.PathFit, opts Options) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result, opts.Precision)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatTable, "":
		_, err := io.WriteString(w, result.Format(opts.Precision))
		return err
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// jsonResult fixes the key order; pointers let non-finite values render as
// null, since JSON has no NaN.
type jsonResult struct {
	RMSEAP      *float64 `json:"rmsea.p"`
	RMSEAPLower *float64 `json:"rmsea.p.ci.lower"`
	RMSEAPUpper *float64 `json:"rmsea.p.ci.upper"`
	NSCIP       *float64 `json:"nsci.p"`
	SRMRS       *float64 `json:"srmr.s"`
	RMSEAS      *float64 `json:"rmsea.s"`
	TLIS        *float64 `json:"tli.s"`
	CFIS        *float64 `json:"cfi.s"`
}

func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// JSONValue returns the result shaped for encoding/json: fixed key order,
// null in place of non-finite values. Callers wrapping the indices in a
// larger payload embed this instead of re-deriving that mapping.
func JSONValue(result *pathmodelfit.PathFit) any {
	return jsonResult{
		RMSEAP:      finiteOrNil(result.RMSEAP),
		RMSEAPLower: finiteOrNil(result.RMSEAPLower),
		RMSEAPUpper: finiteOrNil(result.RMSEAPUpper),
		NSCIP:       finiteOrNil(result.NSCIP),
		SRMRS:       finiteOrNil(result.SRMRS),
		RMSEAS:      finiteOrNil(result.RMSEAS),
		TLIS:        finiteOrNil(result.TLIS),
		CFIS:        finiteOrNil(result.CFIS),
	}
}

func writeJSON(w io.Writer, result *pathmodelfit.PathFit) error {
	return json.NewEncoder(w).Encode(JSONValue(result))
}

func writeCSV(w io.Writer, result *pathmodelfit.PathFit, precision int) error {
	if precision <= 0 {
		precision = pathmodelfit.DefaultPrecision
	}
	measures := result.Measures()
	header := make([]string, len(measures))
	row := make([]string, len(measures))
	for i, m := range measures {
		header[i] = m.Name
		row[i] = strconv.FormatFloat(m.Value, 'g', precision, 64)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(row); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// yamlResult mirrors jsonResult; yaml.v3 encodes NaN and infinities
// natively, so plain floats keep their meaning.
type yamlResult struct {
	RMSEAP      float64 `yaml:"rmsea.p"`
	RMSEAPLower float64 `yaml:"rmsea.p.ci.lower"`
	RMSEAPUpper float64 `yaml:"rmsea.p.ci.upper"`
	NSCIP       float64 `yaml:"nsci.p"`
	SRMRS       float64 `yaml:"srmr.s"`
	RMSEAS      float64 `yaml:"rmsea.s"`
	TLIS        float64 `yaml:"tli.s"`
	CFIS        float64 `yaml:"cfi.s"`
}

func writeYAML(w io.Writer, result *pathmodelfit.PathFit) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(yamlResult{
		RMSEAP:      result.RMSEAP,
		RMSEAPLower: result.RMSEAPLower,
		RMSEAPUpper: result.RMSEAPUpper,
		NSCIP:       result.NSCIP,
		SRMRS:       result.SRMRS,
		RMSEAS:      result.RMSEAS,
		TLIS:        result.TLIS,
		CFIS:        result.CFIS,
	}); err != nil {
		return err
	}
	return enc.Close()
}
