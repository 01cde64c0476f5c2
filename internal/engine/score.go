package engine

import (
	"github.com/piwi3910/PanelCut/internal/model"
)

// Score fills in the layout's area and waste metrics.
//
// Usable waste counts panels that still hold a minUsable offcut. The probe
// only tries the four corners of each panel's effective bounding box against
// the placed pieces; it does not consult the fragmented free pool, so offcuts
// in the middle of a busy panel are not detected.
func Score(l model.Layout, minUsable model.Size) model.Layout {
	l.TotalArea, l.UsedArea, l.UsableWaste = 0, 0, 0
	for _, p := range l.Panels {
		l.TotalArea += p.TotalArea()
		l.UsedArea += p.UsedArea()
		if p.TotalArea()-p.UsedArea() > model.Tolerance && hasUsableCorner(p, minUsable) {
			l.UsableWaste++
		}
	}

	l.WasteArea = l.TotalArea - l.UsedArea
	l.WastePercent = 0
	if l.TotalArea > 0 {
		l.WastePercent = l.WasteArea / l.TotalArea * 100.0
	}
	return l
}

func hasUsableCorner(p model.Panel, min model.Size) bool {
	if min.Width <= 0 || min.Height <= 0 || min.Width > p.Width || min.Height > p.Height {
		return false
	}
	corners := []model.Rect{
		{X: 0, Y: 0, Width: min.Width, Height: min.Height},
		{X: p.Width - min.Width, Y: 0, Width: min.Width, Height: min.Height},
		{X: 0, Y: p.Height - min.Height, Width: min.Width, Height: min.Height},
		{X: p.Width - min.Width, Y: p.Height - min.Height, Width: min.Width, Height: min.Height},
	}
	for _, probe := range corners {
		free := true
		for _, pp := range p.Pieces {
			if probe.Intersects(pp.Rect()) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}
	return false
}
