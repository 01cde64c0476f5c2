package history

import (
	"time"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Entry is one saved plan. The JSON keys are the persisted record format and
// must not change.
type Entry struct {
	ID             int64         `json:"id"` // creation time in Unix milliseconds
	Date           time.Time     `json:"date"`
	ProjectTitle   string        `json:"projectTitle"`
	PanelWidth     float64       `json:"panelWidth"`
	PanelHeight    float64       `json:"panelHeight"`
	PanelThickness float64       `json:"panelThickness"`
	BladeThickness float64       `json:"bladeThickness"`
	PanelCost      float64       `json:"panelCost"`
	SafetyMargin   float64       `json:"safetyMargin"`
	Pieces         []model.Piece `json:"pieces"`
	Panels         []model.Panel `json:"panels"`
	TotalPanels    int           `json:"totalPanels"`
	TotalPieces    int           `json:"totalPieces"`
}

// NewEntry records a generated plan. Slices are copied so later edits to the
// caller's pieces or panels do not leak into the history.
func NewEntry(cfg model.PanelConfig, pieces []model.Piece, panels []model.Panel) Entry {
	e := Entry{
		ProjectTitle:   cfg.ProjectTitle,
		PanelWidth:     cfg.PanelWidth,
		PanelHeight:    cfg.PanelHeight,
		PanelThickness: cfg.PanelThickness,
		BladeThickness: cfg.BladeThickness,
		PanelCost:      cfg.PanelCost,
		SafetyMargin:   cfg.SafetyMargin,
		Pieces:         append([]model.Piece(nil), pieces...),
		Panels:         make([]model.Panel, len(panels)),
		TotalPanels:    len(panels),
	}
	for i, p := range panels {
		e.Panels[i] = p.Clone()
		e.TotalPieces += len(p.Pieces)
	}
	if e.ProjectTitle == "" {
		e.ProjectTitle = untitled
	}
	return e
}

const untitled = "Untitled project"

// Config restores the panel configuration the entry was generated with.
// Display settings and the usable-waste threshold come from the defaults.
func (e Entry) Config() model.PanelConfig {
	cfg := model.DefaultConfig()
	cfg.ProjectTitle = e.ProjectTitle
	cfg.PanelWidth = e.PanelWidth
	cfg.PanelHeight = e.PanelHeight
	if e.PanelThickness > 0 {
		cfg.PanelThickness = e.PanelThickness
	}
	cfg.BladeThickness = e.BladeThickness
	cfg.PanelCost = e.PanelCost
	cfg.SafetyMargin = e.SafetyMargin
	return cfg
}

// TotalCost returns panels × panel cost, or 0 when the cost is unknown.
func (e Entry) TotalCost() float64 {
	if e.PanelCost <= 0 {
		return 0
	}
	return float64(e.TotalPanels) * e.PanelCost
}
