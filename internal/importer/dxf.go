package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PanelCut/internal/model"
)

type point struct{ x, y float64 }

// segment is a line between two points, used for chaining disconnected
// LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// chainTolerance is the largest gap between LINE end points that still
// counts as connected, in drawing units.
const chainTolerance = 0.01

// ImportDXF imports pieces from a DXF file. Every closed rectangle, drawn as
// an LWPOLYLINE or as four connected LINEs, becomes a piece of its bounding
// size. Rectangles of equal size are merged into one piece with a quantity.
// Other closed shapes are skipped with a warning since only rectangular
// pieces can be cut.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	skipped := map[string]int{}

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := make([]point, 0, len(e.Vertices))
			for _, v := range e.Vertices {
				outline = append(outline, point{v[0], v[1]})
			}
			outline = dropClosingPoint(outline)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})

		case *entity.Circle:
			skipped["CIRCLE"]++
		case *entity.Arc:
			skipped["ARC"]++
		}
	}
	for _, kind := range []string{"ARC", "CIRCLE"} {
		if n := skipped[kind]; n > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d %s entities", n, kind))
		}
	}

	outlines = append(outlines, chainSegments(segments, chainTolerance)...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	type size struct{ w, h float64 }
	index := map[size]int{}
	for n, outline := range outlines {
		width, height, ok := rectangleSize(outline)
		if !ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped non-rectangular shape %d", n+1))
			continue
		}
		if width < chainTolerance || height < chainTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", width, height))
			continue
		}

		k := size{round2(width), round2(height)}
		if i, seen := index[k]; seen {
			result.Pieces[i].Quantity++
			continue
		}
		index[k] = len(result.Pieces)
		name := fmt.Sprintf("DXF %gx%g", k.w, k.h)
		result.Pieces = append(result.Pieces, model.NewPiece(name, k.w, k.h, 1))
	}

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// rectangleSize returns the bounding size of an outline and whether the
// outline fills its bounding box, i.e. is an axis-aligned rectangle.
func rectangleSize(o []point) (float64, float64, bool) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range o {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	w, h := maxX-minX, maxY-minY
	box := w * h
	if box == 0 {
		return w, h, true
	}
	return w, h, math.Abs(outlineArea(o)-box)/box < 0.001
}

func dropClosingPoint(o []point) []point {
	if len(o) > 1 && pointsClose(o[0], o[len(o)-1], chainTolerance) {
		return o[:len(o)-1]
	}
	return o
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for start := range segs {
		if used[start] {
			continue
		}
		chain := []point{segs[start].start, segs[start].end}
		used[start] = true

		// Try to extend the chain
		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		// Only closed chains describe a piece
		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, chain[:len(chain)-1])
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x * o[j].y
		area -= o[j].x * o[i].y
	}
	return math.Abs(area) / 2
}
