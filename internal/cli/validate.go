package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmsalab/pathmodelfit"
	"github.com/tmsalab/pathmodelfit/internal/config"
)

func newValidateCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate CONFIG",
		Short: "Check the config and summarize each model's equations",
		Long: `Parses the config file and every model in it without contacting the
estimation engine, then prints the equation classification per analysis:
how many measurement, structural, and covariance equations the model has
and which latent variables it defines.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return usageError(err)
			}
			for _, analysis := range cfg.Analyses {
				// Load already rejected unparsable syntax.
				model, err := pathmodelfit.ParseModel(analysis.ModelText)
				if err != nil {
					return err
				}
				fmt.Fprintf(o.stdout, "analysis %q: %d equations (%d measurement, %d structural, %d covariance)\n",
					analysis.Name,
					model.Len(),
					model.Count(pathmodelfit.KindMeasurement),
					model.Count(pathmodelfit.KindStructural),
					model.Count(pathmodelfit.KindCovariance))
				if latents := model.LatentNames(); len(latents) > 0 {
					fmt.Fprintf(o.stdout, "  latent variables: %s\n", strings.Join(latents, ", "))
				}
				fmt.Fprintf(o.stdout, "  indicators: %d, sample size: %d\n",
					len(model.ObservedNames()), analysis.SampleSize)
			}
			fmt.Fprintf(o.stdout, "config OK: %d analyses\n", len(cfg.Analyses))
			return nil
		},
	}
}
