package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/tmsalab/pathmodelfit"
	"github.com/tmsalab/pathmodelfit/internal/covio"
	"github.com/tmsalab/pathmodelfit/internal/render"
)

// Config is the fully resolved configuration.
type Config struct {
	Analyses []Analysis
	Engine   Engine
	Store    *Store
}

// Analysis is one model/data pairing to fit and report.
type Analysis struct {
	Name       string
	ModelText  string
	Sample     *pathmodelfit.Matrix
	SampleSize int
	Output     Output
}

// Output controls where and how an analysis result is written.
type Output struct {
	Format    render.Format
	Precision int
	// Path receives the rendered result; empty means standard output.
	Path string
}

// Engine locates the estimation service.
type Engine struct {
	BaseURL string
	Timeout time.Duration
	// Token is the resolved bearer token, already read from the
	// environment variable the config named.
	Token string
}

// Store enables run history when present.
type Store struct {
	Path string
}

// Load parses and resolves the config file at path.
func Load(path string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var parsed fileSchema
	if diags := gohcl.DecodeBody(hclFile.Body, evalContext(), &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	return translate(&parsed, filepath.Dir(path))
}

// evalContext exposes the process environment to config expressions as the
// env object, so attributes can say base_url = env.PATHFIT_ENGINE_URL.
// Referencing an unset variable is a decode error, not an empty string.
func evalContext() *hcl.EvalContext {
	attrs := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		attrs[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": cty.ObjectVal(attrs)},
	}
}

// translate turns the raw schema into the resolved model, reading
// referenced files along the way. baseDir anchors relative paths.
func translate(parsed *fileSchema, baseDir string) (*Config, error) {
	if len(parsed.Analyses) == 0 {
		return nil, fmt.Errorf("config declares no analysis blocks")
	}
	if parsed.Engine == nil {
		return nil, fmt.Errorf("config is missing the engine block")
	}

	cfg := &Config{}
	seen := make(map[string]bool, len(parsed.Analyses))
	for _, a := range parsed.Analyses {
		if seen[a.Name] {
			return nil, fmt.Errorf("analysis %q is declared twice", a.Name)
		}
		seen[a.Name] = true

		analysis, err := translateAnalysis(a, baseDir)
		if err != nil {
			return nil, fmt.Errorf("analysis %q: %w", a.Name, err)
		}
		cfg.Analyses = append(cfg.Analyses, *analysis)
	}

	engine, err := translateEngine(parsed.Engine)
	if err != nil {
		return nil, err
	}
	cfg.Engine = *engine

	if parsed.Store != nil {
		if parsed.Store.Path == "" {
			return nil, fmt.Errorf("store block needs a path")
		}
		cfg.Store = &Store{Path: resolvePath(baseDir, parsed.Store.Path)}
	}
	return cfg, nil
}

func translateAnalysis(a *analysisSchema, baseDir string) (*Analysis, error) {
	modelText, err := resolveModel(a, baseDir)
	if err != nil {
		return nil, err
	}
	// Surface syntax problems at load time, not at the first engine call.
	if _, err := pathmodelfit.ParseModel(modelText); err != nil {
		return nil, err
	}

	if a.Data == nil {
		return nil, fmt.Errorf("missing data block")
	}
	sample, err := resolveSample(a.Data, baseDir)
	if err != nil {
		return nil, err
	}
	if a.Data.SampleSize < 2 {
		return nil, fmt.Errorf("sample_size %d is too small", a.Data.SampleSize)
	}

	output, err := translateOutput(a.Output, baseDir)
	if err != nil {
		return nil, err
	}

	return &Analysis{
		Name:       a.Name,
		ModelText:  modelText,
		Sample:     sample,
		SampleSize: a.Data.SampleSize,
		Output:     *output,
	}, nil
}

func resolveModel(a *analysisSchema, baseDir string) (string, error) {
	switch {
	case a.Model != "" && a.ModelFile != "":
		return "", fmt.Errorf("model and model_file are mutually exclusive")
	case a.Model != "":
		return a.Model, nil
	case a.ModelFile != "":
		raw, err := os.ReadFile(resolvePath(baseDir, a.ModelFile))
		if err != nil {
			return "", fmt.Errorf("failed to read model file: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("either model or model_file is required")
	}
}

func resolveSample(d *dataSchema, baseDir string) (*pathmodelfit.Matrix, error) {
	inline := len(d.Labels) > 0 || len(d.Covariance) > 0
	switch {
	case d.CovarianceFile != "" && inline:
		return nil, fmt.Errorf("covariance_file and inline labels/covariance are mutually exclusive")
	case d.CovarianceFile != "":
		return covio.ReadFile(resolvePath(baseDir, d.CovarianceFile))
	case inline:
		return pathmodelfit.NewMatrix(d.Labels, d.Covariance)
	default:
		return nil, fmt.Errorf("data block needs covariance_file or inline labels and covariance")
	}
}

func translateOutput(o *outputSchema, baseDir string) (*Output, error) {
	out := &Output{Format: render.FormatTable}
	if o == nil {
		return out, nil
	}
	format, err := render.ParseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	out.Format = format
	if o.Precision < 0 {
		return nil, fmt.Errorf("precision must not be negative")
	}
	out.Precision = o.Precision
	if o.Path != "" {
		out.Path = resolvePath(baseDir, o.Path)
	}
	return out, nil
}

func translateEngine(e *engineSchema) (*Engine, error) {
	if e.BaseURL == "" {
		return nil, fmt.Errorf("engine block needs a base_url")
	}
	out := &Engine{BaseURL: e.BaseURL}
	if e.Timeout != "" {
		timeout, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return nil, fmt.Errorf("engine timeout: %w", err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("engine timeout must be positive")
		}
		out.Timeout = timeout
	}
	if e.TokenEnv != "" {
		out.Token = os.Getenv(e.TokenEnv)
	}
	return out, nil
}

func resolvePath(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
