package export

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PanelCut/internal/model"
)

// DXF layer names.
const (
	LayerPanel  = "PANEL"
	LayerMargin = "MARGIN"
	LayerPieces = "PIECES"
	LayerLabels = "LABELS"
)

// panelGap separates panels laid out side by side in the drawing, in mm.
const panelGap = 100.0

// ExportDXF writes every panel of the plan to one DXF drawing, left to right,
// in millimetres with the Y axis pointing up. Outlines, the margin border,
// pieces and their labels go to separate layers.
func ExportDXF(path string, plan Plan) error {
	if err := plan.check(); err != nil {
		return err
	}

	d := dxf.NewDrawing()
	layers := []struct {
		name string
		col  color.ColorNumber
	}{
		{LayerPanel, color.White},
		{LayerMargin, color.Red},
		{LayerPieces, color.Cyan},
		{LayerLabels, color.Yellow},
	}
	for _, l := range layers {
		if _, err := d.AddLayer(l.name, l.col, dxf.DefaultLineType, false); err != nil {
			return errors.Wrapf(err, "add layer %s", l.name)
		}
	}

	offsetX := 0.0
	for _, panel := range plan.Layout.Panels {
		if err := drawPanelDXF(d, panel, offsetX); err != nil {
			return errors.Wrapf(err, "panel %d", panel.Number)
		}
		offsetX += panel.FullWidth + panelGap
	}

	return errors.Wrap(d.SaveAs(path), "write dxf")
}

func drawPanelDXF(d *drawing.Drawing, panel model.Panel, offsetX float64) error {
	// flip converts top-left panel coordinates to drawing coordinates.
	flip := func(x, y float64) (float64, float64) {
		return offsetX + x, panel.FullHeight - y
	}

	if err := d.ChangeLayer(LayerPanel); err != nil {
		return err
	}
	if err := dxfRect(d, flip, 0, 0, panel.FullWidth, panel.FullHeight); err != nil {
		return err
	}
	tx, ty := flip(0, -20)
	if _, err := d.Text(fmt.Sprintf("Panel %d", panel.Number), tx, ty, 0, 40); err != nil {
		return err
	}

	if panel.Margin > 0 {
		if err := d.ChangeLayer(LayerMargin); err != nil {
			return err
		}
		if err := dxfRect(d, flip, panel.Margin, panel.Margin, panel.Width, panel.Height); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerPieces); err != nil {
		return err
	}
	for _, pp := range panel.Pieces {
		if err := dxfRect(d, flip, pp.X+panel.Margin, pp.Y+panel.Margin, pp.Width, pp.Height); err != nil {
			return err
		}
	}

	if err := d.ChangeLayer(LayerLabels); err != nil {
		return err
	}
	numbers := model.PieceNumbers(panel)
	for i, pp := range panel.Pieces {
		h := textHeight(pp.Width, pp.Height)
		lx, ly := flip(pp.X+panel.Margin+h/2, pp.Y+panel.Margin+pp.Height/2)
		label := fmt.Sprintf("%d %gx%g", numbers[i], pp.OriginalWidth, pp.OriginalHeight)
		if _, err := d.Text(label, lx, ly, 0, h); err != nil {
			return err
		}
	}
	return nil
}

// dxfRect draws a rectangle given in top-left panel coordinates as four
// lines.
func dxfRect(d *drawing.Drawing, flip func(x, y float64) (float64, float64), x, y, w, h float64) error {
	corners := [][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	for i := range corners {
		ax, ay := flip(corners[i][0], corners[i][1])
		b := corners[(i+1)%len(corners)]
		bx, by := flip(b[0], b[1])
		if _, err := d.Line(ax, ay, 0, bx, by, 0); err != nil {
			return err
		}
	}
	return nil
}

// textHeight scales label text to the piece, between 5 and 30 mm.
func textHeight(w, h float64) float64 {
	t := min(w, h) / 8
	return max(5, min(t, 30))
}
