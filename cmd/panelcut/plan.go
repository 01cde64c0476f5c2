package main

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/engine"
	"github.com/piwi3910/PanelCut/internal/export"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
	"github.com/piwi3910/PanelCut/internal/session"
	"github.com/piwi3910/PanelCut/internal/verify"
)

// outputFlags select the files written for a plan.
type outputFlags struct {
	pdf      string
	labels   string
	xlsx     string
	dxf      string
	pngDir   string
	pngWidth int
	offcuts  string
	json     bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.pdf, "pdf", "", "write the printable plan to this PDF")
	fs.StringVar(&f.labels, "labels", "", "write QR piece labels to this PDF")
	fs.StringVar(&f.xlsx, "xlsx", "", "write the cutting list to this XLSX workbook")
	fs.StringVar(&f.dxf, "dxf", "", "write the layout to this DXF drawing")
	fs.StringVar(&f.pngDir, "png-dir", "", "write one PNG preview per panel into this directory")
	fs.IntVar(&f.pngWidth, "png-width", export.DefaultPreviewWidth, "PNG preview width in pixels")
	fs.StringVar(&f.offcuts, "offcuts-job", "", "write the reusable offcuts as pieces of a new job file")
	fs.BoolVar(&f.json, "json", false, "print the selected layout as JSON")
}

// write runs every selected exporter.
func (f *outputFlags) write(a *app, plan export.Plan) error {
	files := []struct {
		path string
		kind string
		fn   func(string, export.Plan) error
	}{
		{f.pdf, "pdf", export.ExportPDF},
		{f.labels, "labels", export.ExportLabels},
		{f.xlsx, "xlsx", export.ExportCutList},
		{f.dxf, "dxf", export.ExportDXF},
	}
	for _, file := range files {
		if file.path == "" {
			continue
		}
		if err := file.fn(file.path, plan); err != nil {
			return errors.Wrapf(err, "export %s", file.kind)
		}
		a.log.WithFields(logrus.Fields{"kind": file.kind, "path": file.path}).Info("exported")
	}
	if f.pngDir != "" {
		paths, err := export.ExportPNG(f.pngDir, plan, f.pngWidth)
		if err != nil {
			return errors.Wrap(err, "export png")
		}
		a.log.WithFields(logrus.Fields{"kind": "png", "files": len(paths)}).Info("exported")
	}
	if f.offcuts != "" {
		if err := writeOffcutsJob(f.offcuts, plan); err != nil {
			return errors.Wrap(err, "export offcuts job")
		}
		a.log.WithFields(logrus.Fields{"kind": "offcuts", "path": f.offcuts}).Info("exported")
	}
	return nil
}

// writeOffcutsJob saves the plan's reusable offcuts as the pieces of a job
// on the same panel settings, so leftovers can be planned into later work.
func writeOffcutsJob(path string, plan export.Plan) error {
	cfg := plan.Config
	offcuts := model.DetectAllOffcuts(plan.Layout, cfg.MinUsable(), cfg.PanelCost)
	job := project.Job{Panel: cfg, Pieces: make([]model.Piece, 0, len(offcuts))}
	for _, o := range offcuts {
		job.Pieces = append(job.Pieces, o.ToPiece())
	}
	return project.SaveJob(path, job)
}

func newPlanCmd(a *app) *cobra.Command {
	var (
		pf         panelFlags
		of         outputFlags
		strategies []string
		parallel   bool
		layout     int
	)

	cmd := &cobra.Command{
		Use:   "plan [job.yaml|pieces.csv|pieces.xlsx|pieces.dxf]",
		Short: "Generate cutting layouts and export the selected one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pieces, err := a.loadInput(cmd, &pf, args)
			if err != nil {
				return err
			}
			opt, err := a.optimizer(strategies, parallel || a.config.ParallelSearch)
			if err != nil {
				return err
			}

			s, err := session.New(cfg).WithPieces(pieces).Generate(opt)
			if err != nil {
				return err
			}
			if layout > 0 {
				if s, err = s.Select(layout); err != nil {
					return err
				}
			}

			current, _ := s.Current()
			if err := verify.Audit(current, s.Pieces()).Err(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if of.json {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(current); err != nil {
					return errors.Wrap(err, "encode layout")
				}
			} else {
				printLayouts(out, s.Layouts())
				printPlan(out, cfg, current)
			}

			if err := of.write(a, export.NewPlan(cfg, current)); err != nil {
				return err
			}

			a.record(s)
			if len(args) > 0 {
				a.rememberJob(args[0])
			}
			return nil
		},
	}

	pf.register(cmd)
	of.register(cmd)
	cmd.Flags().StringSliceVar(&strategies, "strategy", nil, "sort strategies to try (area, width, height, perimeter, aspect-ratio)")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "run the strategies concurrently")
	cmd.Flags().IntVar(&layout, "layout", 0, "index of the ranked layout to use")
	return cmd
}

// optimizer builds an optimizer for the named strategies.
func (a *app) optimizer(names []string, parallel bool) (*engine.Optimizer, error) {
	var strategies []engine.Strategy
	for _, name := range names {
		s, ok := engine.ParseStrategy(name)
		if !ok {
			return nil, errors.Errorf("unknown strategy %q", name)
		}
		strategies = append(strategies, s)
	}
	return engine.New(engine.Options{
		Strategies: strategies,
		Parallel:   parallel,
		Logger:     a.log,
	}), nil
}

// record adds the session's plan to the history. Failures only warn since
// the plan itself was produced.
func (a *app) record(s session.Session) {
	if !a.historyEnabled() {
		return
	}
	outcome, err := a.history().Add(s.Entry())
	if err != nil {
		a.log.WithError(err).Warn("could not save plan to history")
		return
	}
	a.log.WithField("outcome", outcome).Debug("history updated")
}

// rememberJob puts path at the front of the recent job list.
func (a *app) rememberJob(path string) {
	a.config = project.AddRecentJob(a.config, path)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.log.WithError(err).Warn("could not update recent jobs")
	}
}
