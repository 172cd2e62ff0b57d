package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tmsalab/pathmodelfit"
	"github.com/tmsalab/pathmodelfit/internal/config"
	"github.com/tmsalab/pathmodelfit/internal/ctxlog"
	"github.com/tmsalab/pathmodelfit/internal/render"
	"github.com/tmsalab/pathmodelfit/internal/store"
)

// App executes the analyses of a resolved configuration against one
// estimation engine.
type App struct {
	out    io.Writer
	logger *slog.Logger
	engine pathmodelfit.Engine
	cfg    *config.Config
}

// New assembles an App. The writer receives rendered results for analyses
// that do not name their own output file.
func New(out io.Writer, logger *slog.Logger, engine pathmodelfit.Engine, cfg *config.Config) *App {
	return &App{out: out, logger: logger, engine: engine, cfg: cfg}
}

// Run fits every analysis in config order, renders its indices, and
// records each run in the history store when one is configured. The first
// failing analysis aborts the remainder.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	var st *store.Store
	if a.cfg.Store != nil {
		var err error
		st, err = store.Open(a.cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer st.Close()
	}

	for _, analysis := range a.cfg.Analyses {
		if err := a.runAnalysis(ctx, st, analysis); err != nil {
			return fmt.Errorf("analysis %q: %w", analysis.Name, err)
		}
	}
	return nil
}

func (a *App) runAnalysis(ctx context.Context, st *store.Store, analysis config.Analysis) error {
	a.logger.Info("Starting analysis",
		"name", analysis.Name,
		"variables", analysis.Sample.Dim(),
		"sample_size", analysis.SampleSize)

	fitted, err := pathmodelfit.Fit(ctx, a.engine, analysis.ModelText, analysis.Sample, analysis.SampleSize)
	if err != nil {
		return err
	}
	result, err := fitted.Compute(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Analysis complete",
		"name", analysis.Name,
		"chisq", fitted.ChiSquare(),
		"df", fitted.DF())

	if err := a.write(analysis, result); err != nil {
		return err
	}

	if st != nil {
		id, err := st.RecordRun(ctx, store.Run{
			Name:       analysis.Name,
			Model:      fitted.Model().Text(),
			SampleSize: fitted.SampleSize(),
			ChiSquare:  fitted.ChiSquare(),
			DF:         fitted.DF(),
			Result:     *result,
		})
		if err != nil {
			return err
		}
		a.logger.Debug("Recorded run", "name", analysis.Name, "run_id", id)
	}
	return nil
}

// write renders the result into the analysis's output file, or onto the
// shared writer with a name header so multi-analysis runs stay readable.
func (a *App) write(analysis config.Analysis, result *pathmodelfit.PathFit) error {
	opts := render.Options{Format: analysis.Output.Format, Precision: analysis.Output.Precision}

	if analysis.Output.Path != "" {
		f, err := os.Create(analysis.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := render.Write(f, result, opts); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}

	if opts.Format == render.FormatTable || opts.Format == "" {
		if _, err := fmt.Fprintf(a.out, "=== %s ===\n", analysis.Name); err != nil {
			return err
		}
	}
	return render.Write(a.out, result, opts)
}
