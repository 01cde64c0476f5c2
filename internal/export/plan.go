// Package export renders a finished cutting plan to files: a printable PDF
// with a cover page, QR-coded piece labels, an XLSX cutting list, a DXF
// drawing for CAD and PNG previews. Exporters only read the plan.
package export

import (
	"time"

	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ErrNoPanels is returned when there is nothing to export.
var ErrNoPanels = errors.New("no panels to export")

// Plan is the input of every exporter: one layout and the panel
// configuration it was generated with.
type Plan struct {
	Config  model.PanelConfig
	Layout  model.Layout
	Created time.Time
}

// NewPlan stamps a plan with the current time.
func NewPlan(cfg model.PanelConfig, layout model.Layout) Plan {
	return Plan{Config: cfg, Layout: layout, Created: time.Now()}
}

func (p Plan) check() error {
	if len(p.Layout.Panels) == 0 {
		return ErrNoPanels
	}
	return nil
}

func (p Plan) title() string {
	if p.Config.ProjectTitle == "" {
		return "Untitled project"
	}
	return p.Config.ProjectTitle
}

// pieceColor is an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors is the palette shared by the PDF and PNG renderers.
var pieceColors = []pieceColor{
	{R: 59, G: 130, B: 246}, // blue
	{R: 139, G: 92, B: 246}, // violet
	{R: 236, G: 72, B: 153}, // pink
	{R: 245, G: 158, B: 11}, // amber
	{R: 16, G: 185, B: 129}, // emerald
	{R: 6, G: 182, B: 212},  // cyan
}

func colorFor(i int) pieceColor {
	return pieceColors[i%len(pieceColors)]
}
