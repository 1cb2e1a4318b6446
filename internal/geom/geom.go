// Package geom holds the pure 2D helpers shared by the object model, the
// hit-tester and the gesture controller. Angles are in degrees unless a
// function says otherwise; the y axis points down, as on screen.
package geom

import "math"

// Epsilon is the tolerance below which a length or divisor counts as zero.
const Epsilon = 1e-9

// Point is a 2D point or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales both components by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Len returns the Euclidean length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// RotatePoint rotates (x, y) about (cx, cy) by the given angle. The exact
// inverse is RotatePoint with the negated angle.
func RotatePoint(x, y, cx, cy, degrees float64) (float64, float64) {
	rad := Radians(degrees)
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	tx := x - cx
	ty := y - cy
	return tx*cos - ty*sin + cx, tx*sin + ty*cos + cy
}

// RotateVector rotates v about the origin.
func RotateVector(v Point, degrees float64) Point {
	x, y := RotatePoint(v.X, v.Y, 0, 0, degrees)
	return Point{X: x, Y: y}
}

// Angle returns the direction from (cx, cy) to (px, py) in degrees,
// in the range (-180, 180].
func Angle(cx, cy, px, py float64) float64 {
	a := Degrees(math.Atan2(py-cy, px-cx))
	if a <= -180 {
		a += 360
	}
	return a
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// NearZero reports whether |v| is below Epsilon.
func NearZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// SegmentDistance returns the distance from p to the segment ab.
func SegmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 < Epsilon {
		return p.Sub(a).Len()
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Sub(a.Add(ab.Mul(t))).Len()
}

// BoundsOf returns the axis-aligned box enclosing pts, or an empty Rect.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
