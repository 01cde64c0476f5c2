package model

// AppConfig holds application-wide preferences and the defaults applied to new jobs.
type AppConfig struct {
	DefaultPanelWidth     float64 `json:"default_panel_width"`
	DefaultPanelHeight    float64 `json:"default_panel_height"`
	DefaultPanelThickness float64 `json:"default_panel_thickness"`
	DefaultBladeThickness float64 `json:"default_blade_thickness"`
	DefaultSafetyMargin   float64 `json:"default_safety_margin"`
	DefaultPanelCost      float64 `json:"default_panel_cost"`
	MinUsableWidth        float64 `json:"min_usable_width"`
	MinUsableHeight       float64 `json:"min_usable_height"`

	// Application preferences
	HistoryDisabled bool     `json:"history_disabled"`
	HistoryQuota    int64    `json:"history_quota"` // bytes, 0 = unlimited
	ParallelSearch  bool     `json:"parallel_search"`
	RecentJobs      []string `json:"recent_jobs"`
}

// DefaultAppConfig returns an AppConfig populated with the values from DefaultConfig().
func DefaultAppConfig() AppConfig {
	defaults := DefaultConfig()
	return AppConfig{
		DefaultPanelWidth:     defaults.PanelWidth,
		DefaultPanelHeight:    defaults.PanelHeight,
		DefaultPanelThickness: defaults.PanelThickness,
		DefaultBladeThickness: defaults.BladeThickness,
		DefaultSafetyMargin:   defaults.SafetyMargin,
		DefaultPanelCost:      defaults.PanelCost,
		MinUsableWidth:        defaults.MinUsableWidth,
		MinUsableHeight:       defaults.MinUsableHeight,
		HistoryQuota:          0,
		RecentJobs:            []string{},
	}
}

// PanelDefaults returns a PanelConfig seeded with the saved defaults. Job
// files are decoded on top of it, so fields a job omits inherit these values.
func (c AppConfig) PanelDefaults() PanelConfig {
	pc := DefaultConfig()
	pc.PanelWidth = c.DefaultPanelWidth
	pc.PanelHeight = c.DefaultPanelHeight
	pc.PanelThickness = c.DefaultPanelThickness
	pc.BladeThickness = c.DefaultBladeThickness
	pc.SafetyMargin = c.DefaultSafetyMargin
	pc.PanelCost = c.DefaultPanelCost
	pc.MinUsableWidth = c.MinUsableWidth
	pc.MinUsableHeight = c.MinUsableHeight
	return pc
}
