package model

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Offcut represents a reusable rectangular remnant left on a panel.
type Offcut struct {
	ID          string  `json:"id"`
	PanelNumber int     `json:"panelNumber"`
	X           float64 `json:"x"` // effective-area coordinates
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Value       float64 `json:"value"` // share of the panel cost, 0 if the cost is unknown
}

// Area returns the area of the offcut in square mm.
func (o Offcut) Area() float64 {
	return o.Width * o.Height
}

// ToPiece converts an offcut into a stock-sized piece description, e.g. to
// plan a later job around it.
func (o Offcut) ToPiece() Piece {
	return NewPiece(fmt.Sprintf("Offcut P%d", o.PanelNumber), o.Width, o.Height, 1)
}

// DetectOffcuts lists the free rectangles of a panel that are at least min in
// both dimensions (either orientation), largest first. Unlike the usable-waste
// score this looks at the real free pool.
func DetectOffcuts(p Panel, min Size, panelCost float64) []Offcut {
	var offcuts []Offcut
	for _, r := range p.Spaces {
		fits := (r.Width >= min.Width && r.Height >= min.Height) ||
			(r.Width >= min.Height && r.Height >= min.Width)
		if !fits {
			continue
		}
		offcuts = append(offcuts, Offcut{
			ID:          uuid.New().String()[:8],
			PanelNumber: p.Number,
			X:           r.X,
			Y:           r.Y,
			Width:       r.Width,
			Height:      r.Height,
		})
	}

	// Assign proportional value to offcuts
	if panelCost > 0 && p.FullWidth > 0 && p.FullHeight > 0 {
		fullArea := p.FullWidth * p.FullHeight
		for i := range offcuts {
			offcuts[i].Value = (offcuts[i].Area() / fullArea) * panelCost
		}
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// DetectAllOffcuts finds offcuts across all panels of a layout.
func DetectAllOffcuts(l Layout, min Size, panelCost float64) []Offcut {
	var all []Offcut
	for _, p := range l.Panels {
		all = append(all, DetectOffcuts(p, min, panelCost)...)
	}
	return all
}

// TotalOffcutArea returns the total area of all offcuts in square mm.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
