// Package verify checks finished layouts against the packing invariants:
// every piece inside its panel, no two pieces overlapping, no free space
// covering a piece and every requested instance placed exactly once.
package verify

import (
	"fmt"
	"strings"

	"github.com/asim/quadtree"
	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/model"
)

// ErrInvalidLayout is the cause of Report.Err.
var ErrInvalidLayout = errors.New("layout violates packing invariants")

// IssueKind classifies a violation.
type IssueKind string

const (
	OutOfBounds   IssueKind = "out-of-bounds"
	Overlap       IssueKind = "overlap"
	SpaceOverlap  IssueKind = "space-overlap"
	CountMismatch IssueKind = "count-mismatch"
)

// Issue is one violation found by Audit.
type Issue struct {
	Kind   IssueKind
	Panel  int
	Piece  string
	Other  string
	Detail string
}

func (i Issue) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s", i.Kind)
	if i.Panel > 0 {
		fmt.Fprintf(&sb, " on panel %d", i.Panel)
	}
	if i.Piece != "" {
		fmt.Fprintf(&sb, ": %s", i.Piece)
	}
	if i.Other != "" {
		fmt.Fprintf(&sb, " / %s", i.Other)
	}
	if i.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", i.Detail)
	}
	return sb.String()
}

// Report is the outcome of an audit.
type Report struct {
	Issues   []Issue
	Placed   int
	Expected int
}

// OK reports whether the layout passed every check.
func (r Report) OK() bool {
	return len(r.Issues) == 0
}

// Err returns nil for a clean report, otherwise an error wrapping
// ErrInvalidLayout that lists the first few issues.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	const shown = 3
	var parts []string
	for i, issue := range r.Issues {
		if i == shown {
			parts = append(parts, fmt.Sprintf("and %d more", len(r.Issues)-shown))
			break
		}
		parts = append(parts, issue.String())
	}
	return errors.Wrap(ErrInvalidLayout, strings.Join(parts, "; "))
}

// Audit checks a layout. When pieces is non-nil the number of placed
// instances must equal the expanded quantity of pieces.
func Audit(l model.Layout, pieces []model.Piece) Report {
	var r Report
	for _, p := range l.Panels {
		r.Issues = append(r.Issues, auditPanel(p)...)
		r.Placed += len(p.Pieces)
	}

	if pieces != nil {
		r.Expected = model.InstanceCount(pieces)
		if r.Placed != r.Expected {
			r.Issues = append(r.Issues, Issue{
				Kind:   CountMismatch,
				Detail: fmt.Sprintf("placed %d of %d instances", r.Placed, r.Expected),
			})
		}
	}
	return r
}

func auditPanel(p model.Panel) []Issue {
	var issues []Issue
	bounds := model.Rect{Width: p.Width, Height: p.Height}

	for _, pp := range p.Pieces {
		if !bounds.Contains(pp.Rect()) {
			issues = append(issues, Issue{
				Kind:   OutOfBounds,
				Panel:  p.Number,
				Piece:  pp.Label(),
				Detail: fmt.Sprintf("at %g,%g size %g×%g", pp.X, pp.Y, pp.Width, pp.Height),
			})
		}
	}

	idx := newPieceIndex(p)
	for i, pp := range p.Pieces {
		for _, j := range idx.near(pp.Rect()) {
			if j <= i {
				continue
			}
			if pp.Rect().Intersects(p.Pieces[j].Rect()) {
				issues = append(issues, Issue{
					Kind:  Overlap,
					Panel: p.Number,
					Piece: pp.Label(),
					Other: p.Pieces[j].Label(),
				})
			}
		}
	}

	for _, s := range p.Spaces {
		for _, j := range idx.near(s) {
			if s.Intersects(p.Pieces[j].Rect()) {
				issues = append(issues, Issue{
					Kind:   SpaceOverlap,
					Panel:  p.Number,
					Piece:  p.Pieces[j].Label(),
					Detail: fmt.Sprintf("free space at %g,%g size %g×%g", s.X, s.Y, s.Width, s.Height),
				})
			}
		}
	}
	return issues
}

// pieceIndex is a broad phase over piece centres. A query returns every
// piece whose rectangle could intersect the query rectangle; callers do the
// exact test.
type pieceIndex struct {
	tree       *quadtree.QuadTree
	maxW, maxH float64
	// overflow holds pieces the tree refused, e.g. centres outside the panel.
	overflow []int
}

func newPieceIndex(p model.Panel) *pieceIndex {
	idx := &pieceIndex{}
	for _, pp := range p.Pieces {
		idx.maxW = max(idx.maxW, pp.Width)
		idx.maxH = max(idx.maxH, pp.Height)
	}

	halfW, halfH := p.Width/2, p.Height/2
	aabb := quadtree.NewAABB(
		quadtree.NewPoint(halfW, halfH, nil),
		quadtree.NewPoint(halfW+model.Tolerance, halfH+model.Tolerance, nil),
	)
	idx.tree = quadtree.New(aabb, 0, nil)

	for i, pp := range p.Pieces {
		cx, cy := pp.X+pp.Width/2, pp.Y+pp.Height/2
		if !idx.tree.Insert(quadtree.NewPoint(cx, cy, i)) {
			idx.overflow = append(idx.overflow, i)
		}
	}
	return idx
}

func (idx *pieceIndex) near(r model.Rect) []int {
	center := quadtree.NewPoint(r.X+r.Width/2, r.Y+r.Height/2, nil)
	half := quadtree.NewPoint(
		r.Width/2+idx.maxW/2+model.Tolerance,
		r.Height/2+idx.maxH/2+model.Tolerance,
		nil,
	)

	var out []int
	for _, pt := range idx.tree.Search(quadtree.NewAABB(center, half)) {
		out = append(out, pt.Data().(int))
	}
	return append(out, idx.overflow...)
}
