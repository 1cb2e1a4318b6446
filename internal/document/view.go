package document

import "github.com/inamate/canvas/internal/geom"

// ViewTransform is the pan/zoom state: screen = world*Scale + Offset.
type ViewTransform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// DefaultView is the unzoomed, unpanned view.
func DefaultView() ViewTransform {
	return ViewTransform{Scale: 1}
}

func (v ViewTransform) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

// Zoom returns the effective scale, treating an unset scale as 1.
func (v ViewTransform) Zoom() float64 {
	return v.scale()
}

// ToWorld maps a screen point to world space.
func (v ViewTransform) ToWorld(x, y float64) geom.Point {
	s := v.scale()
	return geom.Point{X: (x - v.OffsetX) / s, Y: (y - v.OffsetY) / s}
}

// ToScreen maps a world point to screen space.
func (v ViewTransform) ToScreen(p geom.Point) geom.Point {
	s := v.scale()
	return geom.Point{X: p.X*s + v.OffsetX, Y: p.Y*s + v.OffsetY}
}

// ScreenToWorldLength converts a screen distance to world units.
func (v ViewTransform) ScreenToWorldLength(d float64) float64 {
	return d / v.scale()
}

// Panned returns v shifted by a screen-space delta.
func (v ViewTransform) Panned(dx, dy float64) ViewTransform {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// ZoomedAt multiplies the scale by factor, clamped to [minScale, maxScale],
// keeping the world point under the screen point (mx, my) fixed.
func (v ViewTransform) ZoomedAt(mx, my, factor, minScale, maxScale float64) ViewTransform {
	old := v.scale()
	next := max(minScale, min(old*factor, maxScale))
	ratio := next / old
	return ViewTransform{
		Scale:   next,
		OffsetX: mx - (mx-v.OffsetX)*ratio,
		OffsetY: my - (my-v.OffsetY)*ratio,
	}
}

// Matrix maps world to screen coordinates.
func (v ViewTransform) Matrix() geom.Matrix2D {
	s := v.scale()
	return geom.Translate(v.OffsetX, v.OffsetY).Multiply(geom.Scale(s, s))
}
