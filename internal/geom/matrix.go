package geom

import "math"

// Matrix2D is an affine transform stored column-major as [a b c d e f]:
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// This is the layout of CanvasRenderingContext2D.setTransform, so draw
// commands ship it unchanged.
type Matrix2D [6]float64

func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate turns by degrees, clockwise on a y-down screen.
func Rotate(degrees float64) Matrix2D {
	sin, cos := math.Sincos(Radians(degrees))
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// Multiply returns m·n: n is applied first.
func (m Matrix2D) Multiply(n Matrix2D) Matrix2D {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	return Matrix2D{
		a*n[0] + c*n[1],
		b*n[0] + d*n[1],
		a*n[2] + c*n[3],
		b*n[2] + d*n[3],
		a*n[4] + c*n[5] + e,
		b*n[4] + d*n[5] + f,
	}
}

// Apply maps p through m.
func (m Matrix2D) Apply(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Invert returns the inverse; ok is false for a singular matrix, in
// which case the identity is returned.
func (m Matrix2D) Invert() (inv Matrix2D, ok bool) {
	a, b, c, d, e, f := m[0], m[1], m[2], m[3], m[4], m[5]
	det := a*d - b*c
	if NearZero(det) {
		return Identity(), false
	}
	k := 1 / det
	return Matrix2D{d * k, -b * k, -c * k, a * k, (c*f - d*e) * k, (b*e - a*f) * k}, true
}

// AboutPivot composes translate(pivot) · rotate · scale · translate(-pivot),
// the order every scene object uses for its own transform.
func AboutPivot(cx, cy, degrees, sx, sy float64) Matrix2D {
	return Translate(cx, cy).
		Multiply(Rotate(degrees)).
		Multiply(Scale(sx, sy)).
		Multiply(Translate(-cx, -cy))
}

// ToSlice copies the six coefficients out for JSON.
func (m Matrix2D) ToSlice() []float64 {
	return append([]float64(nil), m[:]...)
}

// ApproxEqual compares coefficient-wise within eps.
func (m Matrix2D) ApproxEqual(n Matrix2D, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-n[i]) > eps {
			return false
		}
	}
	return true
}
