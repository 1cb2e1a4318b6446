package engine

import (
	"log/slog"
	"math"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

// HitTester finds objects under a world-space point.
type HitTester struct {
	// Measurer answers text widths; nil falls back to an estimate.
	Measurer TextMeasurer
	// LineSlop is the minimum line hit distance in screen pixels.
	LineSlop float64
	Logger   *slog.Logger
}

// HitTest returns the index of the topmost visible, unlocked object
// containing p, or -1. zoom converts screen tolerances to world units.
func (h HitTester) HitTest(p geom.Point, objects []document.Object, zoom float64) int {
	for i := len(objects) - 1; i >= 0; i-- {
		o := objects[i]
		if !o.Visible || o.Locked {
			continue
		}
		if h.Contains(o, p, zoom) {
			return i
		}
	}
	return -1
}

// Contains reports whether o's transformed shape contains p.
func (h HitTester) Contains(o document.Object, p geom.Point, zoom float64) bool {
	switch o.Kind {
	case document.KindRectangle, document.KindPen:
		local, ok := o.ToLocal(p)
		return ok && inHalfBox(o, local)
	case document.KindEllipse:
		local, ok := o.ToLocal(p)
		if !ok || !inHalfBox(o, local) {
			return false
		}
		w, h := o.Bounds()
		if geom.NearZero(w) || geom.NearZero(h) {
			return false
		}
		nx, ny := local.X/(w/2), local.Y/(h/2)
		return nx*nx+ny*ny <= 1
	case document.KindLine:
		return h.nearLine(o, p, zoom)
	case document.KindText:
		return h.inText(o, p)
	default:
		return false
	}
}

func inHalfBox(o document.Object, local geom.Point) bool {
	w, h := o.Bounds()
	return math.Abs(local.X) <= w/2 && math.Abs(local.Y) <= h/2
}

func (h HitTester) nearLine(o document.Object, p geom.Point, zoom float64) bool {
	m := o.Matrix()
	a := m.Apply(geom.Pt(o.StartX, o.StartY))
	b := m.Apply(geom.Pt(o.EndX, o.EndY))
	sx, sy := o.Scale()
	tol := o.StrokeWidth / 2 * math.Max(math.Abs(sx), math.Abs(sy))
	if zoom > 0 {
		tol = math.Max(tol, h.LineSlop/zoom)
	}
	return geom.SegmentDistance(p, a, b) <= tol
}

// inText tests the measured text box in rest coordinates, after undoing
// the object's rotation and scale.
func (h HitTester) inText(o document.Object, p geom.Point) bool {
	local, ok := o.ToLocal(p)
	if !ok {
		return false
	}
	rest := o.Center().Add(local)
	size := fontSize(o)
	width := h.measure(o.Text, size)
	return rest.X >= o.StartX && rest.X <= o.StartX+width &&
		rest.Y >= o.StartY && rest.Y <= o.StartY+size
}

func (h HitTester) measure(text string, size float64) float64 {
	if h.Measurer == nil {
		return approxTextWidth(text, size)
	}
	w, err := h.Measurer.MeasureText(text, size)
	if err != nil {
		h.logger().Debug("text measure failed, estimating", "error", err)
		return approxTextWidth(text, size)
	}
	return w
}

func (h HitTester) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func fontSize(o document.Object) float64 {
	if o.FontSize > 0 {
		return o.FontSize
	}
	return document.DefaultFontSize
}
