package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
)

func newCompareCmd(a *app) *cobra.Command {
	var pf panelFlags

	cmd := &cobra.Command{
		Use:   "compare [job.yaml|pieces.csv|...]",
		Short: "Plan the same pieces under what-if panel settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pieces, err := a.loadInput(cmd, &pf, args)
			if err != nil {
				return err
			}
			opt, err := a.optimizer(nil, a.config.ParallelSearch)
			if err != nil {
				return err
			}

			results := opt.CompareScenarios(engine.BuildDefaultScenarios(cfg), pieces)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "SCENARIO\tPANELS\tWASTE\tCOST\tLAYOUTS")
			for _, r := range results {
				if r.Err != nil {
					fmt.Fprintf(tw, "%s\terror: %v\t\t\t\n", r.Scenario.Name, r.Err)
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\t%.1f%%\t%.2f\t%d\n",
					r.Scenario.Name, r.PanelsUsed, r.WastePercent, r.TotalCost, r.Alternatives)
			}
			return tw.Flush()
		},
	}
	pf.register(cmd)
	return cmd
}
