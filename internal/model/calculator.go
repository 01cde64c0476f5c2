package model

import (
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Summary holds the headline numbers of a layout for reports.
type Summary struct {
	Panels       int     `json:"panels"`
	Pieces       int     `json:"pieces"`
	Cuts         int     `json:"cuts"`
	WastePercent float64 `json:"waste_percent"`
	PanelCost    float64 `json:"panel_cost"`
	TotalCost    float64 `json:"total_cost"` // 0 when the panel cost is unknown
}

// Summarize computes the report summary for a layout. One cut is counted per
// placed piece.
func Summarize(l Layout, cfg PanelConfig) Summary {
	pieces := l.PieceCount()
	s := Summary{
		Panels:       len(l.Panels),
		Pieces:       pieces,
		Cuts:         pieces,
		WastePercent: l.WastePercent,
		PanelCost:    cfg.PanelCost,
	}
	if cfg.PanelCost > 0 {
		s.TotalCost = float64(len(l.Panels)) * cfg.PanelCost
	}
	return s
}

// CutListRow is one line of a panel's cutting list: all pieces sharing the
// same original dimensions.
type CutListRow struct {
	Width        float64  `json:"width"`
	Height       float64  `json:"height"`
	Count        int      `json:"count"`
	PieceNumbers []int    `json:"piece_numbers"`
	Names        []string `json:"names,omitempty"`
}

// NameList returns the row's piece names joined for display.
func (r CutListRow) NameList() string {
	return strings.Join(r.Names, ", ")
}

// ReadingOrder returns the indices of a panel's pieces top to bottom, then
// left to right. Position i of the result holds piece number i+1.
func ReadingOrder(p Panel) []int {
	order := make([]int, len(p.Pieces))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := p.Pieces[order[i]], p.Pieces[order[j]]
		if a.Y == b.Y {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return order
}

// PieceNumbers maps each index of p.Pieces to its 1-based number in reading
// order, the numbering used by CuttingList.
func PieceNumbers(p Panel) []int {
	numbers := make([]int, len(p.Pieces))
	for n, idx := range ReadingOrder(p) {
		numbers[idx] = n + 1
	}
	return numbers
}

// SortedPieces returns a panel's pieces in reading order.
func SortedPieces(p Panel) []PlacedPiece {
	sorted := make([]PlacedPiece, 0, len(p.Pieces))
	for _, idx := range ReadingOrder(p) {
		sorted = append(sorted, p.Pieces[idx])
	}
	return sorted
}

// CuttingList groups a panel's pieces by original dimensions. Pieces are
// numbered 1..n in reading order and rows keep first-seen order.
func CuttingList(p Panel) []CutListRow {
	type key struct{ w, h float64 }
	index := map[key]int{}
	var rows []CutListRow

	for i, pp := range SortedPieces(p) {
		k := key{pp.OriginalWidth, pp.OriginalHeight}
		idx, ok := index[k]
		if !ok {
			idx = len(rows)
			index[k] = idx
			rows = append(rows, CutListRow{Width: k.w, Height: k.h})
		}
		rows[idx].Count++
		rows[idx].PieceNumbers = append(rows[idx].PieceNumbers, i+1)
		if pp.Name != "" && !slices.Contains(rows[idx].Names, pp.Name) {
			rows[idx].Names = append(rows[idx].Names, pp.Name)
		}
	}

	for i := range rows {
		sort.Sort(natural.StringSlice(rows[i].Names))
	}
	return rows
}
