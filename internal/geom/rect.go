package geom

// Rect is axis-aligned with a non-negative size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// LTRB builds a Rect from two opposite corners given in any order.
func LTRB(x0, y0, x1, y1 float64) Rect {
	left, right := min(x0, x1), max(x0, x1)
	top, bottom := min(y0, y1), max(y0, y1)
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Right() float64 {
	return r.X + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

// Contains is inclusive on every edge.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inset moves every edge inward by d; a negative d grows the rect.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Corners lists r's corners mapped through m, clockwise from the top-left.
func (m Matrix2D) Corners(r Rect) []Point {
	return []Point{
		m.Apply(Pt(r.X, r.Y)),
		m.Apply(Pt(r.Right(), r.Y)),
		m.Apply(Pt(r.Right(), r.Bottom())),
		m.Apply(Pt(r.X, r.Bottom())),
	}
}

// TransformRect is the axis-aligned bounding box of r under m.
func (m Matrix2D) TransformRect(r Rect) Rect {
	return BoundsOf(m.Corners(r))
}
