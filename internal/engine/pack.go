package engine

import (
	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Params are the panel parameters a packing run works with. Coordinates of
// placed pieces are relative to the effective area.
type Params struct {
	EffectiveWidth  float64
	EffectiveHeight float64
	Kerf            float64
	Margin          float64
	FullWidth       float64
	FullHeight      float64
	MinUsable       model.Size
}

// ParamsFromConfig derives packing parameters from the UI/CLI configuration.
func ParamsFromConfig(cfg model.PanelConfig) Params {
	return Params{
		EffectiveWidth:  cfg.EffectiveWidth(),
		EffectiveHeight: cfg.EffectiveHeight(),
		Kerf:            cfg.BladeThickness,
		Margin:          cfg.SafetyMargin,
		FullWidth:       cfg.PanelWidth,
		FullHeight:      cfg.PanelHeight,
		MinUsable:       cfg.MinUsable(),
	}
}

func (p Params) newPanel(number int) model.Panel {
	panel := model.NewPanel(number, p.EffectiveWidth, p.EffectiveHeight, p.Margin)
	if p.FullWidth > 0 && p.FullHeight > 0 {
		panel.FullWidth = p.FullWidth
		panel.FullHeight = p.FullHeight
	}
	return panel
}

// Pack places pieces in the given order, best-fit across panels: each piece
// goes to the existing panel whose waste fraction is lowest after placement,
// or onto a new panel when no existing panel can take it. Pieces must already
// be expanded to single instances.
//
// A piece that does not fit on a brand-new panel aborts the run with a
// *PlacementError.
func Pack(pieces []model.Piece, p Params) ([]model.Panel, error) {
	var panels []model.Panel

	for _, piece := range pieces {
		bestIdx := -1
		bestWaste := 0.0
		var best Placement

		for i := range panels {
			placement, ok := Place(panels[i].Spaces, piece, p.Kerf)
			if !ok {
				continue
			}
			waste := wasteAfter(panels[i], placement.Piece)
			if bestIdx < 0 || waste < bestWaste {
				bestIdx, bestWaste, best = i, waste, placement
			}
		}

		if bestIdx >= 0 {
			commit(&panels[bestIdx], best)
			continue
		}

		panel := p.newPanel(len(panels) + 1)
		placement, ok := Place(panel.Spaces, piece, p.Kerf)
		if !ok {
			return nil, errors.WithStack(&PlacementError{
				Piece:  piece,
				Width:  p.EffectiveWidth,
				Height: p.EffectiveHeight,
			})
		}
		commit(&panel, placement)
		panels = append(panels, panel)
	}

	return panels, nil
}

// wasteAfter returns the panel's waste fraction if pp were added to it.
func wasteAfter(panel model.Panel, pp model.PlacedPiece) float64 {
	total := panel.TotalArea()
	if total == 0 {
		return 1
	}
	return (total - panel.UsedArea() - pp.Area()) / total
}

func commit(panel *model.Panel, placement Placement) {
	panel.Pieces = append(panel.Pieces, placement.Piece)
	panel.Spaces = placement.Spaces
}
