package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/model"
)

func newValidateCmd(a *app) *cobra.Command {
	var pf panelFlags

	cmd := &cobra.Command{
		Use:   "validate [job.yaml|pieces.csv|...]",
		Short: "Check the panel settings and pieces without planning",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pieces, err := a.loadInput(cmd, &pf, args)
			if err != nil {
				return err
			}
			if err := engine.ValidateInputs(pieces, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d pieces (%d to cut) on %g×%g panels\n",
				len(pieces), model.InstanceCount(pieces), cfg.PanelWidth, cfg.PanelHeight)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}
