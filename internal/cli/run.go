package cli

import (
	"github.com/spf13/cobra"

	"github.com/tmsalab/pathmodelfit/engines/rest"
	"github.com/tmsalab/pathmodelfit/internal/app"
	"github.com/tmsalab/pathmodelfit/internal/config"
)

func newRunCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run CONFIG",
		Short: "Fit every configured analysis and report its indices",
		Long: `Loads the HCL config file, fits each analysis block through the
configured estimation engine, and writes the eight supplemental indices in
the analysis's output format. When a store block is present, every run is
recorded in the history database.`,
		Example: `  pathmodelfit run analyses.hcl
  pathmodelfit run --log-level debug analyses.hcl`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return usageError(err)
			}
			engine, err := rest.New(rest.Config{
				BaseURL: cfg.Engine.BaseURL,
				Token:   cfg.Engine.Token,
				Timeout: cfg.Engine.Timeout,
			})
			if err != nil {
				return usageError(err)
			}
			return app.New(o.stdout, o.logger(), engine, cfg).Run(cmd.Context())
		},
	}
}
