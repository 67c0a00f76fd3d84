package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/blendplan/core/runlog"
)

func newRunsCmd(load configLoader) *cobra.Command {
	var status, runID string
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded planning runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg.RunLog)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			recs, err := store.Query(cmd.Context(), runlog.RunQuery{Status: status, RunID: runID, Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tRUN\tSTATUS\tBACKEND\tPROFIT\tITERATIONS")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f\t%d\n",
					r.Timestamp.Format(time.RFC3339), r.RunID, r.Status, r.Backend, r.Profit, r.Iterations)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (ok, unbounded, infeasible_start, ...)")
	cmd.Flags().StringVar(&runID, "run-id", "", "filter by run id")
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the most recent runs")
	return cmd
}
