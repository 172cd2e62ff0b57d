package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmsalab/pathmodelfit/internal/store"
)

func newHistoryCommand(o *options) *cobra.Command {
	var (
		storePath string
		analysis  string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history --store PATH",
		Short: "List recorded runs from the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(storePath)
			if err != nil {
				return usageError(err)
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(o.stdout, 0, 8, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tANALYSIS\tCHISQ\tDF\tRMSEA.P\tNSCI.P")
			shown := 0
			for _, run := range runs {
				if analysis != "" && run.Name != analysis {
					continue
				}
				shown++
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\n",
					run.ID,
					run.CreatedAt.Format(time.RFC3339),
					run.Name,
					run.ChiSquare,
					run.DF,
					run.Result.RMSEAP,
					run.Result.NSCIP)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if shown == 0 {
				fmt.Fprintln(o.stdout, "no recorded runs")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&storePath, "store", "", "Path to the history database (required).")
	cmd.Flags().StringVar(&analysis, "analysis", "", "Only show runs of this analysis name.")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum runs to list; 0 uses the store default.")
	_ = cmd.MarkFlagRequired("store")
	return cmd
}
