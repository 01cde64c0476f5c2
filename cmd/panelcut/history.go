package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/export"
	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/project"
	"github.com/piwi3910/PanelCut/internal/session"
)

var errHistoryDisabled = errors.New("history is disabled")

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, reopen and manage saved plans",
	}
	cmd.AddCommand(
		newHistoryListCmd(a),
		newHistoryShowCmd(a),
		newHistoryEditCmd(a),
		newHistoryRemoveCmd(a),
		newHistoryClearCmd(a),
		newHistoryExportCmd(a),
		newHistoryImportCmd(a),
	)
	return cmd
}

// openHistory returns the history or errHistoryDisabled.
func (a *app) openHistory() (*history.History, error) {
	if !a.historyEnabled() {
		return nil, errHistoryDisabled
	}
	return a.history(), nil
}

// entryArg loads the entry whose id is the first argument.
func (a *app) entryArg(args []string) (history.Entry, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return history.Entry{}, errors.Errorf("invalid entry id %q", args[0])
	}
	h, err := a.openHistory()
	if err != nil {
		return history.Entry{}, err
	}
	return h.Get(id)
}

func newHistoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved plans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			entries, err := h.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tPROJECT\tPANEL\tPANELS\tPIECES")
			for _, e := range entries {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%g×%g\t%d\t%d\n",
					e.ID, e.Date.Local().Format("2006-01-02 15:04"), e.ProjectTitle,
					e.PanelWidth, e.PanelHeight, e.TotalPanels, e.TotalPieces)
			}
			return tw.Flush()
		},
	}
}

func newHistoryShowCmd(a *app) *cobra.Command {
	var of outputFlags

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Reopen a saved plan as it was generated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.entryArg(args)
			if err != nil {
				return err
			}
			s := session.FromHistory(e)
			if !s.HasPlan() {
				return errors.Errorf("history entry %d has no panels", e.ID)
			}
			current, _ := s.Current()
			printPlan(cmd.OutOrStdout(), s.Config(), current)

			plan := export.Plan{Config: s.Config(), Layout: current, Created: e.Date}
			return of.write(a, plan)
		},
	}
	of.register(cmd)
	return cmd
}

func newHistoryEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <job.yaml>",
		Short: "Write the settings and pieces of a saved plan to a job file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.entryArg(args)
			if err != nil {
				return err
			}
			s := session.ForEditing(e)
			job := project.Job{Panel: s.Config(), Pieces: s.Pieces()}
			if err := project.SaveJob(args[1], job); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pieces)\n", args[1], len(job.Pieces))
			return nil
		},
	}
}

func newHistoryRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete one saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Errorf("invalid entry id %q", args[0])
			}
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			return h.Remove(id)
		},
	}
}

func newHistoryClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			return h.Clear()
		},
	}
}

func newHistoryExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <backup.json>",
		Short: "Back up the application config and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := a.openHistory()
			if err != nil {
				return err
			}
			entries, err := h.List()
			if err != nil {
				return err
			}
			return project.ExportAllData(args[0], a.config, entries)
		},
	}
}

func newHistoryImportCmd(a *app) *cobra.Command {
	var withConfig bool

	cmd := &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace the history with the one in a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.historyEnabled() {
				return errHistoryDisabled
			}
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			store := history.NewFileStore(history.DefaultPath(a.configDir()), a.config.HistoryQuota)
			if err := project.RestoreHistory(store, backup); err != nil {
				return err
			}
			if withConfig {
				return project.SaveAppConfig(a.configPath, backup.Config)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withConfig, "restore-config", false, "also restore the application config")
	return cmd
}
