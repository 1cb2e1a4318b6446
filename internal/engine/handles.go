package engine

import (
	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

type HandlePosition int

const (
	HandleTopLeft HandlePosition = iota
	HandleTopCenter
	HandleTopRight
	HandleMiddleRight
	HandleBottomRight
	HandleBottomCenter
	HandleBottomLeft
	HandleMiddleLeft
	HandleRotateTopLeft
	HandleRotateTopRight
	HandleRotateBottomRight
	HandleRotateBottomLeft
)

var handleNames = [...]string{
	"top-left", "top-center", "top-right", "middle-right",
	"bottom-right", "bottom-center", "bottom-left", "middle-left",
	"rotate-top-left", "rotate-top-right", "rotate-bottom-right", "rotate-bottom-left",
}

func (p HandlePosition) String() string {
	if p < 0 || int(p) >= len(handleNames) {
		return "unknown"
	}
	return handleNames[p]
}

// Normal returns the handle's direction from the center in the local
// frame; each component is -1, 0 or 1.
func (p HandlePosition) Normal() (float64, float64) {
	switch p {
	case HandleTopLeft, HandleRotateTopLeft:
		return -1, -1
	case HandleTopCenter:
		return 0, -1
	case HandleTopRight, HandleRotateTopRight:
		return 1, -1
	case HandleMiddleRight:
		return 1, 0
	case HandleBottomRight, HandleRotateBottomRight:
		return 1, 1
	case HandleBottomCenter:
		return 0, 1
	case HandleBottomLeft, HandleRotateBottomLeft:
		return -1, 1
	case HandleMiddleLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the scale handle diametrically across the center.
func (p HandlePosition) Opposite() HandlePosition {
	if p.IsRotate() {
		return p
	}
	return (p + 4) % 8
}

// IsCorner reports whether p is a corner scale handle.
func (p HandlePosition) IsCorner() bool {
	nx, ny := p.Normal()
	return !p.IsRotate() && nx != 0 && ny != 0
}

func (p HandlePosition) IsRotate() bool {
	return p >= HandleRotateTopLeft && p <= HandleRotateBottomLeft
}

type HandleAction string

const (
	ActionScale  HandleAction = "scale"
	ActionRotate HandleAction = "rotate"
)

// Handle is a hotspot around the selection, in world space.
type Handle struct {
	Position HandlePosition `json:"position"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Action   HandleAction   `json:"action"`
}

func (h Handle) Point() geom.Point {
	return geom.Point{X: h.X, Y: h.Y}
}

// scaleHandleLocal is the handle offset from the center before rotation.
func scaleHandleLocal(o document.Object, p HandlePosition) geom.Point {
	nx, ny := p.Normal()
	w, h := o.Bounds()
	sx, sy := o.Scale()
	return geom.Point{X: nx * w / 2 * sx, Y: ny * h / 2 * sy}
}

// HandleWorld returns the world position of a scale handle of o.
func HandleWorld(o document.Object, p HandlePosition) geom.Point {
	return o.Center().Add(geom.RotateVector(scaleHandleLocal(o, p), o.Rotation))
}

// GenerateHandles returns the eight scale handles, clockwise from the
// top-left, followed by the four rotation zones. rotateOffset is the
// world distance of each zone beyond its corner.
func GenerateHandles(o document.Object, rotateOffset float64) []Handle {
	handles := make([]Handle, 0, 12)
	for p := HandleTopLeft; p <= HandleMiddleLeft; p++ {
		w := HandleWorld(o, p)
		handles = append(handles, Handle{Position: p, X: w.X, Y: w.Y, Action: ActionScale})
	}

	c := o.Center()
	for p := HandleRotateTopLeft; p <= HandleRotateBottomLeft; p++ {
		corner := scaleHandleLocal(o, p)
		dir := corner
		if geom.NearZero(dir.Len()) {
			nx, ny := p.Normal()
			dir = geom.Point{X: nx, Y: ny}
		}
		dir = dir.Mul(1 / dir.Len())
		local := corner.Add(dir.Mul(rotateOffset))
		w := c.Add(geom.RotateVector(local, o.Rotation))
		handles = append(handles, Handle{Position: p, X: w.X, Y: w.Y, Action: ActionRotate})
	}
	return handles
}

// HandleRadii are the handle hit radii in world units. Grip is the drawn
// handle disc; a press inside it always grabs that handle.
type HandleRadii struct {
	Rotate float64
	Scale  float64
	Grip   float64
}

// HitTestHandles resolves a press against handles from GenerateHandles.
// A press on a drawn handle disc scales. Otherwise rotation zones within
// Rotate are tested first, but only outside the selection outline, then
// scale handles within Scale.
func HitTestHandles(p geom.Point, handles []Handle, r HandleRadii) (Handle, bool) {
	if h, ok := nearestScaleHandle(p, handles, r.Grip); ok {
		return h, true
	}
	if !insideCorners(p, handles) {
		for _, h := range handles {
			if h.Action == ActionRotate && geom.Distance(p.X, p.Y, h.X, h.Y) <= r.Rotate {
				return h, true
			}
		}
	}
	for _, h := range handles {
		if h.Action == ActionScale && geom.Distance(p.X, p.Y, h.X, h.Y) <= r.Scale {
			return h, true
		}
	}
	return Handle{}, false
}

func nearestScaleHandle(p geom.Point, handles []Handle, radius float64) (Handle, bool) {
	var best Handle
	bestDist := radius
	found := false
	for _, h := range handles {
		if h.Action != ActionScale {
			continue
		}
		if d := geom.Distance(p.X, p.Y, h.X, h.Y); d <= bestDist {
			best, bestDist, found = h, d, true
		}
	}
	return best, found
}

// insideCorners reports whether p lies in the quad spanned by the corner
// scale handles, edges included.
func insideCorners(p geom.Point, handles []Handle) bool {
	var quad []geom.Point
	for _, h := range handles {
		if h.Action == ActionScale && h.Position.IsCorner() {
			quad = append(quad, h.Point())
		}
	}
	if len(quad) != 4 {
		return false
	}
	var pos, neg bool
	for i, a := range quad {
		b := quad[(i+1)%4]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross > geom.Epsilon {
			pos = true
		} else if cross < -geom.Epsilon {
			neg = true
		}
	}
	return !(pos && neg)
}
