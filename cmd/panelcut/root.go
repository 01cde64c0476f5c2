package main

import (
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// app carries the state shared by all commands.
type app struct {
	configPath string
	verbose    bool
	logJSON    bool
	noHistory  bool

	log    *logrus.Logger
	config model.AppConfig
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "panelcut",
		Short:         "Cutting plans for rectangular pieces on stock panels",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", project.DefaultConfigPath(), "application config file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log strategy diagnostics")
	flags.BoolVar(&a.logJSON, "log-json", false, "log as JSON")
	flags.BoolVar(&a.noHistory, "no-history", false, "do not read or write the plan history")

	root.AddCommand(
		newPlanCmd(a),
		newValidateCmd(a),
		newCompareCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup configures logging and loads the application config.
func (a *app) setup(stderr io.Writer) error {
	a.log = logrus.New()
	a.log.SetOutput(stderr)
	if a.verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
	if a.logJSON {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return err
	}
	a.config = cfg
	a.log.WithField("config", a.configPath).Debug("config loaded")
	return nil
}

// historyEnabled reports whether plans are recorded.
func (a *app) historyEnabled() bool {
	return !a.noHistory && !a.config.HistoryDisabled
}

func (a *app) configDir() string {
	return filepath.Dir(a.configPath)
}

// history opens the plan history next to the config file.
func (a *app) history() *history.History {
	store := history.NewFileStore(history.DefaultPath(a.configDir()), a.config.HistoryQuota)
	return history.New(store, a.log)
}
