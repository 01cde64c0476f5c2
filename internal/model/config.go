package model

// Validation ranges for the saw and panel settings, in mm.
const (
	MaxBladeThickness = 20.0
	MaxSafetyMargin   = 15.0
)

// PanelConfig is the typed configuration passed from the UI or CLI into the
// packing core.
type PanelConfig struct {
	ProjectTitle   string  `json:"projectTitle" yaml:"projectTitle"`
	PanelWidth     float64 `json:"panelWidth" yaml:"panelWidth"`         // mm
	PanelHeight    float64 `json:"panelHeight" yaml:"panelHeight"`       // mm
	PanelThickness float64 `json:"panelThickness" yaml:"panelThickness"` // mm, informational
	BladeThickness float64 `json:"bladeThickness" yaml:"bladeThickness"` // kerf in mm
	PanelCost      float64 `json:"panelCost" yaml:"panelCost"`           // price per panel, 0 = unknown
	SafetyMargin   float64 `json:"safetyMargin" yaml:"safetyMargin"`     // trimmed on every edge
	ShowCutLines   bool    `json:"showCutLines" yaml:"showCutLines"`
	ShowWaste      bool    `json:"showWaste" yaml:"showWaste"`

	// Minimum offcut size that counts as usable waste when ranking layouts.
	MinUsableWidth  float64 `json:"minUsableWidth" yaml:"minUsableWidth"`
	MinUsableHeight float64 `json:"minUsableHeight" yaml:"minUsableHeight"`
}

func DefaultConfig() PanelConfig {
	return PanelConfig{
		ProjectTitle:    "Untitled project",
		PanelWidth:      2800,
		PanelHeight:     2070,
		PanelThickness:  18,
		BladeThickness:  3,
		PanelCost:       0,
		SafetyMargin:    0,
		ShowCutLines:    true,
		ShowWaste:       true,
		MinUsableWidth:  200,
		MinUsableHeight: 200,
	}
}

// EffectiveWidth returns the panel width minus the margin on both sides.
func (c PanelConfig) EffectiveWidth() float64 {
	return c.PanelWidth - 2*c.SafetyMargin
}

// EffectiveHeight returns the panel height minus the margin on both sides.
func (c PanelConfig) EffectiveHeight() float64 {
	return c.PanelHeight - 2*c.SafetyMargin
}

// MinUsable returns the usable-waste threshold as a Size.
func (c PanelConfig) MinUsable() Size {
	return Size{Width: c.MinUsableWidth, Height: c.MinUsableHeight}
}
