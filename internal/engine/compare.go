package engine

import (
	"fmt"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ComparisonScenario defines a named panel configuration to compare.
type ComparisonScenario struct {
	Name   string
	Config model.PanelConfig
}

// ComparisonResult holds the best layout and its statistics for one scenario.
// Err is set when the scenario could not be planned at all.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Best         model.Layout
	Alternatives int
	PanelsUsed   int
	WastePercent float64
	TotalCost    float64
	Err          error
}

// CompareScenarios plans the same pieces under each scenario, in order. This
// enables side-by-side what-if comparisons (thinner blade, no margin, ...).
func (o *Optimizer) CompareScenarios(scenarios []ComparisonScenario, pieces []model.Piece) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		res := ComparisonResult{Scenario: scenario}
		set, err := o.Plan(pieces, scenario.Config)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		best, _ := set.Best()
		summary := model.Summarize(best, scenario.Config)
		res.Best = best
		res.Alternatives = len(set.Layouts)
		res.PanelsUsed = summary.Panels
		res.WastePercent = summary.WastePercent
		res.TotalCost = summary.TotalCost
		results = append(results, res)
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around the current
// configuration.
func BuildDefaultScenarios(base model.PanelConfig) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:   "Current settings",
			Config: base,
		},
	}

	// Scenario: Thinner blade
	if base.BladeThickness > 1.0 {
		thin := base
		thin.BladeThickness = base.BladeThickness * 0.5
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Blade %.1fmm (half)", thin.BladeThickness),
			Config: thin,
		})
	}

	// Scenario: No safety margin
	if base.SafetyMargin > 0 {
		noMargin := base
		noMargin.SafetyMargin = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "No safety margin",
			Config: noMargin,
		})
	}

	// Scenario: Panel turned 90°
	if base.PanelWidth != base.PanelHeight {
		turned := base
		turned.PanelWidth, turned.PanelHeight = base.PanelHeight, base.PanelWidth
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Panel turned 90°",
			Config: turned,
		})
	}

	return scenarios
}
