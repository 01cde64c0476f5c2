package engine

import (
	"github.com/piwi3910/PanelCut/internal/model"
)

// ValidateInputs checks pieces and panel settings before any packing attempt.
// The returned error is a *ValidationError wrapping ErrInvalidInput.
func ValidateInputs(pieces []model.Piece, cfg model.PanelConfig) error {
	if cfg.PanelWidth <= 0 || cfg.PanelHeight <= 0 {
		return invalid("panel dimensions must be positive, got %g×%g", cfg.PanelWidth, cfg.PanelHeight)
	}
	if cfg.BladeThickness < 0 || cfg.BladeThickness > model.MaxBladeThickness {
		return invalid("blade thickness %g outside [0,%g]", cfg.BladeThickness, model.MaxBladeThickness)
	}
	if cfg.SafetyMargin < 0 || cfg.SafetyMargin > model.MaxSafetyMargin {
		return invalid("safety margin %g outside [0,%g]", cfg.SafetyMargin, model.MaxSafetyMargin)
	}

	ew, eh := cfg.EffectiveWidth(), cfg.EffectiveHeight()
	if ew <= 0 || eh <= 0 {
		return invalid("effective panel area %g×%g is empty", ew, eh)
	}

	if len(pieces) == 0 {
		return invalid("no pieces to cut")
	}
	for _, p := range pieces {
		if p.Width <= 0 || p.Height <= 0 {
			return invalid("piece %q has non-positive dimensions %g×%g", p.Label(), p.Width, p.Height)
		}
		if p.Quantity <= 0 {
			return invalid("piece %q has quantity %d", p.Label(), p.Quantity)
		}
		upright := p.Width <= ew+model.Tolerance && p.Height <= eh+model.Tolerance
		turned := p.Height <= ew+model.Tolerance && p.Width <= eh+model.Tolerance
		if !upright && !turned {
			return invalid("piece %q (%g×%g) is larger than the usable panel area %g×%g",
				p.Label(), p.Width, p.Height, ew, eh)
		}
	}
	return nil
}
