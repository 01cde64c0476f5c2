package model

// Tolerance is the coordinate tolerance in mm used when comparing edges.
const Tolerance = 0.001

// Rect is an axis-aligned rectangle, used for free space inside a panel.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Area returns the rectangle area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.Width
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Intersects returns true if two rectangles overlap (not just touch).
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.Right()-Tolerance && r.Right() > o.X+Tolerance &&
		r.Y < o.Bottom()-Tolerance && r.Bottom() > o.Y+Tolerance
}

// Contains returns true if r fully contains inner.
func (r Rect) Contains(inner Rect) bool {
	return r.X <= inner.X+Tolerance && r.Y <= inner.Y+Tolerance &&
		r.Right() >= inner.Right()-Tolerance &&
		r.Bottom() >= inner.Bottom()-Tolerance
}

// Fits reports whether a w x h item fits inside r without rotation.
func (r Rect) Fits(w, h float64) bool {
	return w <= r.Width+Tolerance && h <= r.Height+Tolerance
}

// Near reports whether two coordinates are equal within Tolerance.
func Near(a, b float64) bool {
	d := a - b
	return d < Tolerance && d > -Tolerance
}
