package engine

import (
	"cmp"
	"math"
	"slices"
	"strconv"

	"github.com/piwi3910/PanelCut/internal/model"
)

// Strategy is a piece sort order fed to the packer. All orders are descending.
type Strategy uint8

const (
	ByArea Strategy = iota
	ByWidth
	ByHeight
	ByPerimeter
	ByAspectRatio
)

// AllStrategies lists the strategies the optimizer runs, in evaluation order.
var AllStrategies = []Strategy{ByArea, ByWidth, ByHeight, ByPerimeter, ByAspectRatio}

var strategyNames = [...]string{
	ByArea:        "area",
	ByWidth:       "width",
	ByHeight:      "height",
	ByPerimeter:   "perimeter",
	ByAspectRatio: "aspect-ratio",
}

// String implements the Stringer interface.
func (s Strategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "strategy(" + strconv.Itoa(int(s)) + ")"
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, bool) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), true
		}
	}
	return 0, false
}

func (s Strategy) key(p model.Piece) float64 {
	switch s {
	case ByWidth:
		return p.Width
	case ByHeight:
		return p.Height
	case ByPerimeter:
		return 2 * (p.Width + p.Height)
	case ByAspectRatio:
		short := math.Min(p.Width, p.Height)
		if short <= 0 {
			return 0
		}
		return math.Max(p.Width, p.Height) / short
	default:
		return p.Area()
	}
}

// Sort returns a sorted copy of pieces, largest key first. Equal keys keep
// their input order.
func (s Strategy) Sort(pieces []model.Piece) []model.Piece {
	sorted := slices.Clone(pieces)
	slices.SortStableFunc(sorted, func(a, b model.Piece) int {
		return cmp.Compare(s.key(b), s.key(a))
	})
	return sorted
}
