package engine

import (
	"log/slog"
	"math"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

const (
	selectionColor = "#0099FF"
	handleFill     = "#FFFFFF"
	handleShadow   = "#00000026"
)

// Frame is everything one render pass reads.
type Frame struct {
	Objects    []document.Object
	View       document.ViewTransform
	Background string
	Selected   int
	Hovered    int
	// ShowHandles draws selection handles; off for creation tools.
	ShowHandles bool
	Preview     *Preview
	Paint       document.PaintDefaults
	Settings    Settings
}

// RenderPass draws frames onto a Renderer.
type RenderPass struct {
	Logger *slog.Logger
}

// Render draws the scene back to front, then the hover outline, the
// selection chrome and finally the live preview.
func (rp RenderPass) Render(r Renderer, f Frame) {
	settings := f.Settings.withDefaults()
	zoom := f.View.Zoom()

	r.Clear(f.Background)
	r.Save()
	r.Translate(f.View.OffsetX, f.View.OffsetY)
	r.Scale(zoom, zoom)

	for i, o := range f.Objects {
		if !o.Visible {
			continue
		}
		rp.drawObject(r, o, i)
	}

	if f.Hovered >= 0 && f.Hovered < len(f.Objects) && f.Hovered != f.Selected {
		if o := f.Objects[f.Hovered]; o.Visible {
			drawOutline(r, o, zoom, true)
		}
	}
	if f.Selected >= 0 && f.Selected < len(f.Objects) {
		if o := f.Objects[f.Selected]; o.Visible {
			drawOutline(r, o, zoom, false)
			if f.ShowHandles && !o.Locked {
				drawHandles(r, o, settings.HandleRadius/zoom)
			}
		}
	}
	if f.Preview != nil {
		drawPreview(r, *f.Preview, f.Paint, zoom)
	}

	r.Restore()
}

func (rp RenderPass) logger() *slog.Logger {
	if rp.Logger == nil {
		return slog.Default()
	}
	return rp.Logger
}

// applyObjectTransform composes translate(center), rotate, scale and
// translate(-center) onto the renderer.
func applyObjectTransform(r Renderer, o document.Object) {
	sx, sy := o.Scale()
	if o.Rotation == 0 && sx == 1 && sy == 1 {
		return
	}
	c := o.Center()
	r.Translate(c.X, c.Y)
	if o.Rotation != 0 {
		r.Rotate(o.Rotation)
	}
	if sx != 1 || sy != 1 {
		r.Scale(sx, sy)
	}
	r.Translate(-c.X, -c.Y)
}

func (rp RenderPass) drawObject(r Renderer, o document.Object, index int) {
	r.Save()
	defer r.Restore()
	applyObjectTransform(r, o)

	if s := o.Shadow; s != nil && s.Enabled && document.IsVisibleColor(s.Color) {
		r.Save()
		r.Translate(s.OffsetX, s.OffsetY)
		rp.drawShape(r, o, index, s.Spread, Paint{Style: PaintFill, Color: s.Color, Blur: s.Blur},
			Paint{Style: PaintStroke, Color: s.Color, StrokeWidth: o.StrokeWidth, Blur: s.Blur, Round: true})
		r.Restore()
	}

	fill := fillPaint(o.Fill)
	stroke := strokePaint(o.Stroke, o.StrokeWidth)
	rp.drawShape(r, o, index, 0, fill, stroke)
}

// drawShape draws o's geometry grown by spread, filling and stroking only
// with paints that would be visible.
func (rp RenderPass) drawShape(r Renderer, o document.Object, index int, spread float64, fill, stroke Paint) {
	doFill := document.IsVisibleColor(fill.Color)
	doStroke := document.IsVisibleColor(stroke.Color) && stroke.StrokeWidth > 0

	switch o.Kind {
	case document.KindRectangle:
		rect := o.RestRect().Inset(-spread)
		radii := clampRadii(o.CornerRadius.Radii(), rect)
		if doFill {
			r.DrawRect(rect, radii, fill)
		}
		if doStroke {
			r.DrawRect(rect, radii, stroke)
		}
	case document.KindEllipse:
		rect := o.RestRect().Inset(-spread)
		if doFill {
			r.DrawOval(rect, fill)
		}
		if doStroke {
			r.DrawOval(rect, stroke)
		}
	case document.KindLine:
		if doStroke {
			stroke.StrokeWidth += 2 * spread
			stroke.Round = true
			r.DrawLine(geom.Pt(o.StartX, o.StartY), geom.Pt(o.EndX, o.EndY), stroke)
		}
	case document.KindPen:
		pts := o.WorldPath()
		if len(pts) < 2 {
			return
		}
		if doFill && o.Closed {
			r.DrawPath(pts, true, fill)
		}
		if doStroke {
			stroke.StrokeWidth += 2 * spread
			stroke.Round = true
			r.DrawPath(pts, o.Closed, stroke)
		}
	case document.KindText:
		if o.Text == "" || !doFill {
			return
		}
		size := fontSize(o)
		origin := geom.Pt(o.StartX, o.StartY+size*0.75)
		if err := r.DrawText(o.Text, origin, size, fill); err != nil {
			rp.logger().Debug("skipping text", "index", index, "object", o.ID, "error", err)
		}
	default:
		rp.logger().Debug("skipping unknown kind", "index", index, "kind", o.Kind)
	}
}

// clampRadii limits each radius to half the shorter side of rect.
func clampRadii(radii [4]float64, rect geom.Rect) [4]float64 {
	limit := math.Min(rect.Width, rect.Height) / 2
	for i, v := range radii {
		radii[i] = math.Max(0, math.Min(v, limit))
	}
	return radii
}

// drawOutline traces the transformed rest rectangle in world space. Hover
// outlines are dashed, selection outlines solid.
func drawOutline(r Renderer, o document.Object, zoom float64, dashed bool) {
	p := Paint{
		Style:       PaintStroke,
		Color:       selectionColor,
		StrokeWidth: 1.5 / zoom,
	}
	if dashed {
		p.Dash = []float64{8 / zoom, 4 / zoom}
	}
	if o.Kind == document.KindLine {
		m := o.Matrix()
		r.DrawLine(m.Apply(geom.Pt(o.StartX, o.StartY)), m.Apply(geom.Pt(o.EndX, o.EndY)), p)
		return
	}
	r.DrawPath(o.Corners(), true, p)
}

// drawHandles draws the eight scale handles at a constant screen size.
// Rotation zones are invisible.
func drawHandles(r Renderer, o document.Object, radius float64) {
	for _, h := range GenerateHandles(o, 0) {
		if h.Action != ActionScale {
			continue
		}
		c := h.Point()
		r.DrawCircle(c, radius*(1+3.0/7), fillPaint(handleShadow))
		r.DrawCircle(c, radius, fillPaint(handleFill))
		r.DrawCircle(c, radius, strokePaint(selectionColor, radius*2/7))
	}
}

func drawPreview(r Renderer, pv Preview, paint document.PaintDefaults, zoom float64) {
	fill := fillPaint(paint.Fill)
	stroke := strokePaint(paint.Stroke, paint.StrokeWidth)
	doFill := document.IsVisibleColor(fill.Color)
	doStroke := document.IsVisibleColor(stroke.Color) && stroke.StrokeWidth > 0

	switch pv.Kind {
	case document.KindRectangle:
		rect := geom.LTRB(pv.Start.X, pv.Start.Y, pv.End.X, pv.End.Y)
		if doFill {
			r.DrawRect(rect, [4]float64{}, fill)
		}
		if doStroke {
			r.DrawRect(rect, [4]float64{}, stroke)
		}
	case document.KindEllipse:
		rect := geom.LTRB(pv.Start.X, pv.Start.Y, pv.End.X, pv.End.Y)
		if doFill {
			r.DrawOval(rect, fill)
		}
		if doStroke {
			r.DrawOval(rect, stroke)
		}
	case document.KindLine:
		if doStroke {
			stroke.Round = true
			r.DrawLine(pv.Start, pv.End, stroke)
		}
	case document.KindPen:
		if !doStroke {
			stroke = strokePaint(selectionColor, 1.5/zoom)
		}
		stroke.Round = true
		if len(pv.Points) >= 2 {
			r.DrawPath(pv.Points, pv.Closed, stroke)
		}
		if pv.HasCursor && len(pv.Points) > 0 {
			band := strokePaint(selectionColor, 1/zoom)
			band.Dash = []float64{4 / zoom, 4 / zoom}
			r.DrawLine(pv.Points[len(pv.Points)-1], pv.Cursor, band)
		}
		for _, p := range pv.Points {
			r.DrawCircle(p, 3/zoom, fillPaint(handleFill))
			r.DrawCircle(p, 3/zoom, strokePaint(selectionColor, 1/zoom))
		}
	}
}
