package engine

import (
	"math"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// ScaleRequest is one frame of a handle-scale gesture. Snapshot is the
// object as it was when the gesture began; Pivot is the world position of
// the opposite handle at that moment.
type ScaleRequest struct {
	Snapshot      document.Object
	Handle        HandlePosition
	Pivot         geom.Point
	Pointer       geom.Point
	KeepAspect    bool
	MinScreenSize float64
	Zoom          float64
}

// ScaleAboutPivot computes the scale factors that put the grabbed handle
// under the pointer while the pivot stays fixed. The rest rectangle keeps
// its size and is only moved so that its scaled center lands where the
// pivot requires.
func ScaleAboutPivot(req ScaleRequest) document.Patch {
	snap := req.Snapshot
	nx, ny := req.Handle.Normal()
	w, h := snap.Bounds()
	sx0, sy0 := snap.Scale()
	sx, sy := sx0, sy0

	minX := minScaleFor(w, req.MinScreenSize, req.Zoom)
	minY := minScaleFor(h, req.MinScreenSize, req.Zoom)

	// Pointer relative to the pivot, in the un-rotated frame.
	d := geom.RotateVector(req.Pointer.Sub(req.Pivot), -snap.Rotation)
	if div := nx * w; nx != 0 && !geom.NearZero(div) {
		sx = floorMagnitude(d.X/div, minX)
	}
	if div := ny * h; ny != 0 && !geom.NearZero(div) {
		sy = floorMagnitude(d.Y/div, minY)
	}

	if req.KeepAspect {
		kx, ky := sx/sx0, sy/sy0
		var k float64
		switch {
		case nx == 0:
			k = ky
		case ny == 0:
			k = kx
		case math.Abs(kx) >= math.Abs(ky):
			k = kx
		default:
			k = ky
		}
		k = floorMagnitude(k, math.Max(minX/math.Abs(sx0), minY/math.Abs(sy0)))
		sx, sy = sx0*k, sy0*k
	}

	half := geom.Point{X: nx * w / 2 * sx, Y: ny * h / 2 * sy}
	center := req.Pivot.Add(geom.RotateVector(half, snap.Rotation))
	shift := center.Sub(snap.Center())
	return document.RectPatch(
		snap.StartX+shift.X, snap.StartY+shift.Y,
		snap.EndX+shift.X, snap.EndY+shift.Y,
	).WithScale(sx, sy)
}

// minScaleFor is the smallest scale magnitude that keeps an extent at
// least minScreen pixels on screen, and never below document.MinScale.
func minScaleFor(extent, minScreen, zoom float64) float64 {
	if zoom <= 0 {
		zoom = 1
	}
	if extent*zoom < geom.Epsilon || minScreen <= 0 {
		return document.MinScale
	}
	return math.Max(document.MinScale, minScreen/(extent*zoom))
}

// floorMagnitude raises |s| to at least m, keeping the sign of s.
func floorMagnitude(s, m float64) float64 {
	if math.Abs(s) >= m {
		return s
	}
	if math.Signbit(s) {
		return -m
	}
	return m
}

// RotateFromPointer returns the rotation after the pointer has swept from
// startAngle to its current angle about center.
func RotateFromPointer(startRotation, startAngle float64, center, pointer geom.Point) float64 {
	current := geom.Angle(center.X, center.Y, pointer.X, pointer.Y)
	return startRotation + (current - startAngle)
}
