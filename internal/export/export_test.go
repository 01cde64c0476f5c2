package export

import (
	"time"

	"github.com/piwi3910/PanelCut/internal/model"
)

// buildTestPlan returns a two-panel plan on 2800x2070 stock with a 10mm
// margin. The first panel holds three pieces, one of them rotated.
func buildTestPlan() Plan {
	cfg := model.DefaultConfig()
	cfg.ProjectTitle = "Kitchen"
	cfg.SafetyMargin = 10
	cfg.PanelCost = 45

	first := model.NewPanel(1, 2780, 2050, 10)
	first.Pieces = []model.PlacedPiece{
		{ID: "p1", Name: "Side", X: 0, Y: 0, Width: 600, Height: 400, OriginalWidth: 600, OriginalHeight: 400},
		{ID: "p2", Name: "Top", X: 603, Y: 0, Width: 500, Height: 300, OriginalWidth: 500, OriginalHeight: 300},
		{ID: "p3", Name: "Shelf", X: 0, Y: 403, Width: 300, Height: 400, OriginalWidth: 400, OriginalHeight: 300, Rotated: true},
	}
	first.Spaces = []model.Rect{
		{X: 1106, Y: 0, Width: 1674, Height: 2050},
		{X: 0, Y: 806, Width: 1106, Height: 1244},
	}

	second := model.NewPanel(2, 2780, 2050, 10)
	second.Pieces = []model.PlacedPiece{
		{ID: "p4", Name: "Back", X: 0, Y: 0, Width: 800, Height: 500, OriginalWidth: 800, OriginalHeight: 500},
	}
	second.Spaces = []model.Rect{
		{X: 803, Y: 0, Width: 1977, Height: 2050},
		{X: 0, Y: 503, Width: 803, Height: 1547},
	}

	return Plan{
		Config:  cfg,
		Layout:  model.Layout{Strategy: "area", Panels: []model.Panel{first, second}, WastePercent: 87.3},
		Created: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}
