package engine

import (
	"github.com/piwi3910/PanelCut/internal/model"
)

// Placement is the outcome of placing one piece into a free-space pool.
type Placement struct {
	Spaces []model.Rect // updated, merged pool
	Piece  model.PlacedPiece
}

// Place puts a single piece instance into the best-fitting free rectangle
// using the Best Area Fit heuristic. Both orientations are tried per
// rectangle, upright first; the first candidate wins ties. The chosen
// rectangle is split guillotine-style into a right remainder as tall as the
// piece and a full-width bottom remainder, each offset by the kerf.
//
// The input pool is never modified. ok is false when no rectangle admits the
// piece in either orientation.
func Place(spaces []model.Rect, piece model.Piece, kerf float64) (Placement, bool) {
	if piece.Area() > SpaceArea(spaces)+model.Tolerance {
		return Placement{}, false
	}

	bestIdx := -1
	bestFit := 0.0
	rotated := false

	for i, s := range spaces {
		if s.Fits(piece.Width, piece.Height) {
			fit := s.Area() - piece.Area()
			if bestIdx < 0 || fit < bestFit {
				bestIdx, bestFit, rotated = i, fit, false
			}
		}
		if s.Fits(piece.Height, piece.Width) {
			fit := s.Area() - piece.Area()
			if bestIdx < 0 || fit < bestFit {
				bestIdx, bestFit, rotated = i, fit, true
			}
		}
	}

	if bestIdx < 0 {
		return Placement{}, false
	}

	chosen := spaces[bestIdx]
	w, h := piece.Width, piece.Height
	if rotated {
		w, h = h, w
	}

	placed := model.PlacedPiece{
		ID:             piece.ID,
		Name:           piece.Name,
		X:              chosen.X,
		Y:              chosen.Y,
		Width:          w,
		Height:         h,
		OriginalWidth:  piece.Width,
		OriginalHeight: piece.Height,
		Rotated:        rotated,
	}

	next := make([]model.Rect, 0, len(spaces)+1)
	next = append(next, spaces[:bestIdx]...)
	next = append(next, spaces[bestIdx+1:]...)
	next = append(next, splitSpace(chosen, w, h, kerf)...)

	return Placement{Spaces: MergeSpaces(next), Piece: placed}, true
}

// splitSpace returns the right and bottom remainders of s after a w x h piece
// is placed in its top-left corner. Remainders without positive extent are dropped.
func splitSpace(s model.Rect, w, h, kerf float64) []model.Rect {
	var out []model.Rect
	right := model.Rect{
		X:      s.X + w + kerf,
		Y:      s.Y,
		Width:  s.Width - w - kerf,
		Height: h,
	}
	bottom := model.Rect{
		X:      s.X,
		Y:      s.Y + h + kerf,
		Width:  s.Width,
		Height: s.Height - h - kerf,
	}
	if right.Width > model.Tolerance && right.Height > model.Tolerance {
		out = append(out, right)
	}
	if bottom.Width > model.Tolerance && bottom.Height > model.Tolerance {
		out = append(out, bottom)
	}
	return out
}
