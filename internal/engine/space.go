package engine

import (
	"github.com/piwi3910/PanelCut/internal/model"
)

// SpaceArea returns the summed area of a free-space pool.
func SpaceArea(spaces []model.Rect) float64 {
	var total float64
	for _, s := range spaces {
		total += s.Area()
	}
	return total
}

// MergeSpaces coalesces free rectangles that share a full edge until no pair
// can be merged. Surviving rectangles keep their relative input order, so
// merging an already merged pool returns it unchanged. The input slice is not
// modified.
func MergeSpaces(spaces []model.Rect) []model.Rect {
	merged := append([]model.Rect(nil), spaces...)
	if len(merged) <= 1 {
		return merged
	}

	for {
		i, j, union, ok := findMergeable(merged)
		if !ok {
			return merged
		}
		merged[i] = union
		merged = append(merged[:j], merged[j+1:]...)
	}
}

// findMergeable returns the first pair (i < j) that can be coalesced.
func findMergeable(spaces []model.Rect) (int, int, model.Rect, bool) {
	for i := 0; i < len(spaces); i++ {
		for j := i + 1; j < len(spaces); j++ {
			if union, ok := mergePair(spaces[i], spaces[j]); ok {
				return i, j, union, true
			}
		}
	}
	return 0, 0, model.Rect{}, false
}

// mergePair returns the union of a and b when they share a full edge.
func mergePair(a, b model.Rect) (model.Rect, bool) {
	// Horizontal neighbours: same row band
	if model.Near(a.Y, b.Y) && model.Near(a.Height, b.Height) {
		if model.Near(a.Right(), b.X) {
			return model.Rect{X: a.X, Y: a.Y, Width: a.Width + b.Width, Height: a.Height}, true
		}
		if model.Near(b.Right(), a.X) {
			return model.Rect{X: b.X, Y: a.Y, Width: a.Width + b.Width, Height: a.Height}, true
		}
	}
	// Vertical neighbours: same column band
	if model.Near(a.X, b.X) && model.Near(a.Width, b.Width) {
		if model.Near(a.Bottom(), b.Y) {
			return model.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height + b.Height}, true
		}
		if model.Near(b.Bottom(), a.Y) {
			return model.Rect{X: a.X, Y: b.Y, Width: a.Width, Height: a.Height + b.Height}, true
		}
	}
	return model.Rect{}, false
}
