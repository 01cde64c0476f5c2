package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Piece represents a required rectangular piece to be cut.
type Piece struct {
	ID       string  `json:"id" yaml:"id,omitempty"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Width    float64 `json:"width" yaml:"width"`   // mm
	Height   float64 `json:"height" yaml:"height"` // mm
	Quantity int     `json:"quantity" yaml:"quantity"`
}

func NewPiece(name string, w, h float64, qty int) Piece {
	return Piece{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Width:    w,
		Height:   h,
		Quantity: qty,
	}
}

// Area returns the area of a single instance in square mm.
func (p Piece) Area() float64 {
	return p.Width * p.Height
}

// Label returns the name, or the dimensions when the piece is unnamed.
func (p Piece) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("%g×%g", p.Width, p.Height)
}

// ExpandPieces turns every piece into Quantity single instances. Instance IDs
// are suffixed with their ordinal so each instance stays distinguishable.
func ExpandPieces(pieces []Piece) []Piece {
	var expanded []Piece
	for _, p := range pieces {
		for i := 0; i < p.Quantity; i++ {
			cp := p
			cp.Quantity = 1
			if p.Quantity > 1 {
				cp.ID = fmt.Sprintf("%s-%d", p.ID, i+1)
			}
			expanded = append(expanded, cp)
		}
	}
	return expanded
}

// InstanceCount returns the total number of piece instances.
func InstanceCount(pieces []Piece) int {
	n := 0
	for _, p := range pieces {
		n += p.Quantity
	}
	return n
}

// PlacedPiece is a piece instance bound to a position on a panel. Coordinates
// are relative to the panel's effective (margin-reduced) area.
type PlacedPiece struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Width          float64 `json:"width"`  // placed width, after rotation
	Height         float64 `json:"height"` // placed height, after rotation
	OriginalWidth  float64 `json:"originalWidth"`
	OriginalHeight float64 `json:"originalHeight"`
	Rotated        bool    `json:"rotated"`
}

// Rect returns the occupied rectangle.
func (pp PlacedPiece) Rect() Rect {
	return Rect{X: pp.X, Y: pp.Y, Width: pp.Width, Height: pp.Height}
}

// Area returns the occupied area in square mm.
func (pp PlacedPiece) Area() float64 {
	return pp.Width * pp.Height
}

// Label mirrors Piece.Label for placed instances.
func (pp PlacedPiece) Label() string {
	if pp.Name != "" {
		return pp.Name
	}
	return fmt.Sprintf("%g×%g", pp.OriginalWidth, pp.OriginalHeight)
}

// Panel is one stock panel with its placed pieces and remaining free space.
type Panel struct {
	Number     int           `json:"panelNumber"`
	Pieces     []PlacedPiece `json:"pieces"`
	Spaces     []Rect        `json:"spaces,omitempty"`
	Width      float64       `json:"width"`  // effective width
	Height     float64       `json:"height"` // effective height
	FullWidth  float64       `json:"fullWidth"`
	FullHeight float64       `json:"fullHeight"`
	Margin     float64       `json:"safetyMargin"`
}

// NewPanel creates an empty panel whose free pool is the whole effective area.
func NewPanel(number int, width, height, margin float64) Panel {
	return Panel{
		Number:     number,
		Width:      width,
		Height:     height,
		FullWidth:  width + 2*margin,
		FullHeight: height + 2*margin,
		Margin:     margin,
		Spaces:     []Rect{{X: 0, Y: 0, Width: width, Height: height}},
	}
}

// TotalArea returns the effective panel area.
func (p Panel) TotalArea() float64 {
	return p.Width * p.Height
}

// UsedArea returns the total area covered by placed pieces.
func (p Panel) UsedArea() float64 {
	var total float64
	for _, pp := range p.Pieces {
		total += pp.Area()
	}
	return total
}

// WasteFraction returns (total - used) / total, or 0 for a degenerate panel.
func (p Panel) WasteFraction() float64 {
	ta := p.TotalArea()
	if ta == 0 {
		return 0
	}
	return (ta - p.UsedArea()) / ta
}

// Efficiency returns the usage percentage.
func (p Panel) Efficiency() float64 {
	return (1 - p.WasteFraction()) * 100.0
}

// Clone returns a copy that shares no slices with p.
func (p Panel) Clone() Panel {
	cp := p
	cp.Pieces = append([]PlacedPiece(nil), p.Pieces...)
	cp.Spaces = append([]Rect(nil), p.Spaces...)
	return cp
}

// Layout is one complete packing result.
type Layout struct {
	Strategy     string  `json:"strategy"`
	Panels       []Panel `json:"panels"`
	TotalArea    float64 `json:"totalArea"`
	UsedArea     float64 `json:"usedArea"`
	WasteArea    float64 `json:"wasteArea"`
	WastePercent float64 `json:"wastePercent"`
	UsableWaste  int     `json:"usableWaste"`
}

// PieceCount returns the number of placed piece instances.
func (l Layout) PieceCount() int {
	n := 0
	for _, p := range l.Panels {
		n += len(p.Pieces)
	}
	return n
}

// Signature returns a key that is equal for two layouts iff they have the
// same panel count and the same ordered placed rectangles on every panel.
func (l Layout) Signature() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d|", len(l.Panels))
	for _, p := range l.Panels {
		for _, pp := range p.Pieces {
			fmt.Fprintf(&sb, "%g,%g,%g,%g;", pp.X, pp.Y, pp.Width, pp.Height)
		}
		sb.WriteByte('|')
	}
	return sb.String()
}

// ErrLayoutIndex is returned when selecting a layout that does not exist.
var ErrLayoutIndex = errors.New("layout index out of range")

// LayoutSet is the ranked, deduplicated list of layouts for one input.
type LayoutSet struct {
	Layouts []Layout `json:"layouts"`
	Current int      `json:"current"`
}

// Best returns the first-ranked layout.
func (ls LayoutSet) Best() (Layout, bool) {
	if len(ls.Layouts) == 0 {
		return Layout{}, false
	}
	return ls.Layouts[0], true
}

// Selected returns the currently selected layout.
func (ls LayoutSet) Selected() (Layout, bool) {
	if ls.Current < 0 || ls.Current >= len(ls.Layouts) {
		return Layout{}, false
	}
	return ls.Layouts[ls.Current], true
}

// Select returns the panels of the layout at index. The returned panels are
// copies; the set itself is never edited.
func (ls LayoutSet) Select(index int) ([]Panel, error) {
	if index < 0 || index >= len(ls.Layouts) {
		return nil, errors.Wrapf(ErrLayoutIndex, "index %d, have %d layouts", index, len(ls.Layouts))
	}
	src := ls.Layouts[index].Panels
	panels := make([]Panel, len(src))
	for i, p := range src {
		panels[i] = p.Clone()
	}
	return panels, nil
}
