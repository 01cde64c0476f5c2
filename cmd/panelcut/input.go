package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PanelCut/internal/importer"
	"github.com/piwi3910/PanelCut/internal/model"
	"github.com/piwi3910/PanelCut/internal/project"
)

// panelFlags are the panel settings that can be given on the command line.
// They override the job file and the saved defaults.
type panelFlags struct {
	title     string
	panel     string
	thickness float64
	kerf      float64
	margin    float64
	cost      float64
	pieces    []string
}

func (f *panelFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.title, "title", "", "project title")
	fs.StringVar(&f.panel, "panel", "", "panel size as WxH in mm")
	fs.Float64Var(&f.thickness, "thickness", 0, "panel thickness in mm")
	fs.Float64Var(&f.kerf, "kerf", 0, "blade thickness in mm")
	fs.Float64Var(&f.margin, "margin", 0, "safety margin trimmed on every edge in mm")
	fs.Float64Var(&f.cost, "cost", 0, "price of one panel")
	fs.StringArrayVarP(&f.pieces, "piece", "p", nil, "piece as WxH[xQTY][:NAME], repeatable")
}

// apply overrides cfg with the flags that were set.
func (f *panelFlags) apply(cmd *cobra.Command, cfg model.PanelConfig) (model.PanelConfig, error) {
	fs := cmd.Flags()
	if fs.Changed("title") {
		cfg.ProjectTitle = f.title
	}
	if fs.Changed("panel") {
		w, h, err := parseSize(f.panel)
		if err != nil {
			return cfg, errors.Wrap(err, "--panel")
		}
		cfg.PanelWidth, cfg.PanelHeight = w, h
	}
	if fs.Changed("thickness") {
		cfg.PanelThickness = f.thickness
	}
	if fs.Changed("kerf") {
		cfg.BladeThickness = f.kerf
	}
	if fs.Changed("margin") {
		cfg.SafetyMargin = f.margin
	}
	if fs.Changed("cost") {
		cfg.PanelCost = f.cost
	}
	return cfg, nil
}

// loadInput builds the panel configuration and piece list from an optional
// input file plus the command line. Job files (YAML, JSON) carry both;
// piece lists (CSV, XLSX, DXF) only pieces.
func (a *app) loadInput(cmd *cobra.Command, f *panelFlags, args []string) (model.PanelConfig, []model.Piece, error) {
	cfg := a.config.PanelDefaults()
	var pieces []model.Piece

	if len(args) > 0 {
		path := args[0]
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml", ".json":
			job, err := project.LoadJob(path, cfg)
			if err != nil {
				return cfg, nil, err
			}
			cfg, pieces = job.Panel, job.Pieces
		default:
			res := importer.ImportFile(path)
			for _, w := range res.Warnings {
				a.log.WithField("file", path).Warn(w)
			}
			if err := res.Err(); err != nil {
				return cfg, nil, err
			}
			pieces = res.Pieces
		}
		a.log.WithFields(logrus.Fields{
			"file":   path,
			"pieces": len(pieces),
		}).Debug("input loaded")
	}

	for _, spec := range f.pieces {
		p, err := parsePiece(spec)
		if err != nil {
			return cfg, nil, errors.Wrapf(err, "--piece %q", spec)
		}
		pieces = append(pieces, p)
	}

	cfg, err := f.apply(cmd, cfg)
	return cfg, pieces, err
}

// parseSize parses "WxH". Both dimensions must be positive numbers.
func parseSize(s string) (float64, float64, error) {
	parts := splitDims(s)
	if len(parts) != 2 {
		return 0, 0, errors.Errorf("size %q is not WxH", s)
	}
	w, err := positive(parts[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := positive(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// parsePiece parses "WxH", "WxHxQTY" and either with a ":NAME" suffix.
func parsePiece(s string) (model.Piece, error) {
	dims, name, _ := strings.Cut(s, ":")
	parts := splitDims(dims)
	if len(parts) < 2 || len(parts) > 3 {
		return model.Piece{}, errors.New("expected WxH[xQTY][:NAME]")
	}
	w, err := positive(parts[0])
	if err != nil {
		return model.Piece{}, err
	}
	h, err := positive(parts[1])
	if err != nil {
		return model.Piece{}, err
	}
	qty := 1
	if len(parts) == 3 {
		qty, err = strconv.Atoi(parts[2])
		if err != nil || qty < 1 {
			return model.Piece{}, errors.Errorf("invalid quantity %q", parts[2])
		}
	}
	return model.NewPiece(strings.TrimSpace(name), w, h, qty), nil
}

func splitDims(s string) []string {
	return strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == 'x' || r == 'X' || r == '×' || r == '*'
	})
}

func positive(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, errors.Errorf("invalid dimension %q", s)
	}
	return v, nil
}
