package document

import (
	"math"

	"github.com/inamate/canvas/internal/geom"
)

type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindPen       Kind = "pen"
	KindText      Kind = "text"
)

// Valid reports whether k names a drawable kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRectangle, KindEllipse, KindLine, KindPen, KindText:
		return true
	default:
		return false
	}
}

const (
	// MinScale is the smallest scale magnitude an object may carry.
	MinScale = 0.01

	Transparent     = "transparent"
	DefaultFill     = "#FFFFFF"
	DefaultFontSize = 20.0
)

type Shadow struct {
	Enabled bool    `json:"enabled"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   string  `json:"color"`
}

// DefaultShadow matches the property inspector's initial values.
func DefaultShadow() Shadow {
	return Shadow{OffsetY: 4, Blur: 8, Color: "#000000"}
}

type CornerRadius struct {
	TopLeft     float64 `json:"topLeft"`
	TopRight    float64 `json:"topRight"`
	BottomRight float64 `json:"bottomRight"`
	BottomLeft  float64 `json:"bottomLeft"`
	Independent bool    `json:"independent"`
}

// UniformRadius returns a CornerRadius with every corner set to r.
func UniformRadius(r float64) CornerRadius {
	return CornerRadius{TopLeft: r, TopRight: r, BottomRight: r, BottomLeft: r}
}

// Radii returns the corner radii clockwise from the top-left. When the
// corners are not independent, TopLeft is the shared value.
func (c CornerRadius) Radii() [4]float64 {
	if !c.Independent {
		return [4]float64{c.TopLeft, c.TopLeft, c.TopLeft, c.TopLeft}
	}
	return [4]float64{c.TopLeft, c.TopRight, c.BottomRight, c.BottomLeft}
}

// IsZero reports whether every effective radius is zero.
func (c CornerRadius) IsZero() bool {
	for _, r := range c.Radii() {
		if r > 0 {
			return false
		}
	}
	return true
}

// Object is one drawable entity. StartX..EndY is the rest rectangle: the
// unrotated, unscaled geometry. Rotation (degrees) and ScaleX/ScaleY are
// applied about its center.
type Object struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`

	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`

	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`

	Visible bool `json:"visible"`
	Locked  bool `json:"locked"`

	Shadow       *Shadow      `json:"shadow,omitempty"`
	CornerRadius CornerRadius `json:"cornerRadius"`

	// Path holds pen anchors relative to (StartX, StartY).
	Path   []geom.Point `json:"path,omitempty"`
	Closed bool         `json:"closed,omitempty"`

	Text     string  `json:"text,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
}

// Center is the pivot for both rotation and scale.
func (o Object) Center() geom.Point {
	return geom.Point{X: (o.StartX + o.EndX) / 2, Y: (o.StartY + o.EndY) / 2}
}

// Bounds returns the unsigned width and height of the rest rectangle.
func (o Object) Bounds() (float64, float64) {
	return math.Abs(o.EndX - o.StartX), math.Abs(o.EndY - o.StartY)
}

// RestRect returns the rest rectangle normalised to positive extents.
func (o Object) RestRect() geom.Rect {
	return geom.LTRB(o.StartX, o.StartY, o.EndX, o.EndY)
}

// Scale returns the scale factors, treating an unset (zero) factor as 1.
func (o Object) Scale() (float64, float64) {
	sx, sy := o.ScaleX, o.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	return sx, sy
}

// Matrix maps rest coordinates to world coordinates:
// translate(center) * rotate * scale * translate(-center).
func (o Object) Matrix() geom.Matrix2D {
	c := o.Center()
	sx, sy := o.Scale()
	return geom.AboutPivot(c.X, c.Y, o.Rotation, sx, sy)
}

// ToLocal maps a world point into the object's local frame: relative to
// the center, un-rotated and un-scaled. It returns false when a scale
// factor is too close to zero to divide by.
func (o Object) ToLocal(p geom.Point) (geom.Point, bool) {
	sx, sy := o.Scale()
	if geom.NearZero(sx) || geom.NearZero(sy) {
		return geom.Point{}, false
	}
	c := o.Center()
	x, y := geom.RotatePoint(p.X, p.Y, c.X, c.Y, -o.Rotation)
	return geom.Point{X: (x - c.X) / sx, Y: (y - c.Y) / sy}, true
}

// ToWorld maps a local-frame point (see ToLocal) back to world space.
func (o Object) ToWorld(p geom.Point) geom.Point {
	sx, sy := o.Scale()
	v := geom.RotateVector(geom.Point{X: p.X * sx, Y: p.Y * sy}, o.Rotation)
	return o.Center().Add(v)
}

// Corners returns the four transformed corners of the rest rectangle in
// world space, clockwise from the top-left.
func (o Object) Corners() []geom.Point {
	return o.Matrix().Corners(o.RestRect())
}

// WorldPath returns the pen anchors in rest coordinates.
func (o Object) WorldPath() []geom.Point {
	pts := make([]geom.Point, len(o.Path))
	for i, p := range o.Path {
		pts[i] = geom.Point{X: o.StartX + p.X, Y: o.StartY + p.Y}
	}
	return pts
}

// Clone returns a deep copy; the path and shadow are not shared.
func (o Object) Clone() Object {
	c := o
	if o.Path != nil {
		c.Path = make([]geom.Point, len(o.Path))
		copy(c.Path, o.Path)
	}
	if o.Shadow != nil {
		s := *o.Shadow
		c.Shadow = &s
	}
	return c
}

// Translated returns a copy moved by (dx, dy).
func (o Object) Translated(dx, dy float64) Object {
	c := o.Clone()
	c.StartX += dx
	c.StartY += dy
	c.EndX += dx
	c.EndY += dy
	return c
}

// ClampScale floors the magnitude of s at MinScale, keeping its sign.
func ClampScale(s float64) float64 {
	if math.Abs(s) >= MinScale {
		return s
	}
	if math.Signbit(s) {
		return -MinScale
	}
	return MinScale
}

// NewPenPath builds a pen object from world-space anchors. The rest
// rectangle is the anchors' bounding box and the path is stored relative
// to its top-left corner.
func NewPenPath(id string, anchors []geom.Point, closed bool) Object {
	b := geom.BoundsOf(anchors)
	path := make([]geom.Point, len(anchors))
	for i, p := range anchors {
		path[i] = geom.Point{X: p.X - b.X, Y: p.Y - b.Y}
	}
	return Object{
		ID:      id,
		Kind:    KindPen,
		StartX:  b.X,
		StartY:  b.Y,
		EndX:    b.X + b.Width,
		EndY:    b.Y + b.Height,
		ScaleX:  1,
		ScaleY:  1,
		Visible: true,
		Path:    path,
		Closed:  closed,
	}
}
