// Package raster implements the engine's Renderer on a gg software
// context, with Go Regular as the text face.
package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/geom"
)

var ErrInvalidSize = errors.New("invalid canvas size")

// kappa places cubic control points for a quarter circle.
const kappa = 0.5522847498307936

// Canvas is a raster Renderer. It is not safe for concurrent use.
type Canvas struct {
	dc     *gg.Context
	font   *text.FontSource
	faces  map[float64]text.Face
	logger *slog.Logger
}

var _ engine.Renderer = (*Canvas)(nil)

type Option func(*options)

type options struct {
	logger   *slog.Logger
	fontData []byte
}

// WithLogger receives capability gaps (blur, rotated text) at Debug.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFont replaces the default Go Regular face with TTF/OTF data.
func WithFont(data []byte) Option {
	return func(o *options) { o.fontData = data }
}

// New creates a width×height canvas.
func New(width, height int, opts ...Option) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	o := options{
		logger:   slog.New(slog.DiscardHandler),
		fontData: goregular.TTF,
	}
	for _, opt := range opts {
		opt(&o)
	}

	font, err := text.NewFontSource(o.fontData)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return &Canvas{
		dc:     gg.NewContext(width, height),
		font:   font,
		faces:  make(map[float64]text.Face),
		logger: o.logger,
	}, nil
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the rendered pixels as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// Close releases the context and the font source.
func (c *Canvas) Close() error {
	return errors.Join(c.dc.Close(), c.font.Close())
}

// Clear fills the whole canvas and resets the transform.
func (c *Canvas) Clear(color string) {
	c.dc.Identity()
	c.dc.ClearWithColor(document.ParseColor(color))
}

func (c *Canvas) Save() {
	c.dc.Push()
}

func (c *Canvas) Restore() {
	c.dc.Pop()
}

func (c *Canvas) Translate(x, y float64) {
	c.dc.Translate(x, y)
}

func (c *Canvas) Scale(sx, sy float64) {
	c.dc.Scale(sx, sy)
}

func (c *Canvas) Rotate(degrees float64) {
	c.dc.Rotate(geom.Radians(degrees))
}

func (c *Canvas) DrawRect(r geom.Rect, radii [4]float64, p engine.Paint) {
	switch {
	case radii == [4]float64{}:
		c.dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	case radii[0] == radii[1] && radii[1] == radii[2] && radii[2] == radii[3]:
		c.dc.DrawRoundedRectangle(r.X, r.Y, r.Width, r.Height, radii[0])
	default:
		c.roundedRect(r, radii)
	}
	c.paint(p)
}

// roundedRect traces a rectangle with a separate radius per corner,
// clockwise from the top-left.
func (c *Canvas) roundedRect(r geom.Rect, radii [4]float64) {
	tl, tr, br, bl := radii[0], radii[1], radii[2], radii[3]
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height

	c.dc.MoveTo(x0+tl, y0)
	c.dc.LineTo(x1-tr, y0)
	if tr > 0 {
		c.dc.CubicTo(x1-tr+tr*kappa, y0, x1, y0+tr-tr*kappa, x1, y0+tr)
	}
	c.dc.LineTo(x1, y1-br)
	if br > 0 {
		c.dc.CubicTo(x1, y1-br+br*kappa, x1-br+br*kappa, y1, x1-br, y1)
	}
	c.dc.LineTo(x0+bl, y1)
	if bl > 0 {
		c.dc.CubicTo(x0+bl-bl*kappa, y1, x0, y1-bl+bl*kappa, x0, y1-bl)
	}
	c.dc.LineTo(x0, y0+tl)
	if tl > 0 {
		c.dc.CubicTo(x0, y0+tl-tl*kappa, x0+tl-tl*kappa, y0, x0+tl, y0)
	}
	c.dc.ClosePath()
}

func (c *Canvas) DrawOval(r geom.Rect, p engine.Paint) {
	cx, cy := r.Center()
	c.dc.DrawEllipse(cx, cy, r.Width/2, r.Height/2)
	c.paint(p)
}

func (c *Canvas) DrawLine(a, b geom.Point, p engine.Paint) {
	c.dc.DrawLine(a.X, a.Y, b.X, b.Y)
	c.paint(p)
}

func (c *Canvas) DrawPath(points []geom.Point, closed bool, p engine.Paint) {
	if len(points) == 0 {
		return
	}
	c.dc.MoveTo(points[0].X, points[0].Y)
	for _, pt := range points[1:] {
		c.dc.LineTo(pt.X, pt.Y)
	}
	if closed {
		c.dc.ClosePath()
	}
	c.paint(p)
}

func (c *Canvas) DrawCircle(center geom.Point, radius float64, p engine.Paint) {
	c.dc.DrawCircle(center.X, center.Y, radius)
	c.paint(p)
}

// DrawText draws text with its baseline at origin. Glyphs are placed in
// device space: the origin and size follow the current transform, but
// rotation and non-uniform scale are not applied to the glyphs.
func (c *Canvas) DrawText(s string, origin geom.Point, size float64, p engine.Paint) error {
	if size <= 0 {
		return fmt.Errorf("draw text: font size %v", size)
	}
	x, y := c.dc.TransformPoint(origin.X, origin.Y)
	ux, uy := c.dc.TransformPoint(origin.X+1, origin.Y)
	scale := math.Hypot(ux-x, uy-y)
	if !geom.NearZero(uy - y) {
		c.logger.Debug("text rotation not supported, drawing upright", "text", s)
	}
	col := document.ParseColor(p.Color)

	c.dc.Push()
	c.dc.Identity()
	c.dc.SetFont(c.face(size * scale))
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
	c.dc.DrawString(s, x, y)
	c.dc.Pop()
	return nil
}

// MeasureText returns the advance width of s at size in world units.
func (c *Canvas) MeasureText(s string, size float64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("measure text: font size %v", size)
	}
	w, _ := text.Measure(s, c.face(size))
	return w, nil
}

func (c *Canvas) face(size float64) text.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := c.font.Face(size)
	c.faces[size] = f
	return f
}

// paint fills or strokes the current path and clears it.
func (c *Canvas) paint(p engine.Paint) {
	col := document.ParseColor(p.Color)
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
	if p.Blur > 0 {
		c.logger.Debug("blur not supported, drawing sharp", "blur", p.Blur)
	}

	var err error
	switch p.Style {
	case engine.PaintStroke:
		c.dc.SetLineWidth(p.StrokeWidth)
		c.dc.SetDash(p.Dash...)
		if p.Round {
			c.dc.SetLineCap(gg.LineCapRound)
			c.dc.SetLineJoin(gg.LineJoinRound)
		} else {
			c.dc.SetLineCap(gg.LineCapButt)
			c.dc.SetLineJoin(gg.LineJoinMiter)
		}
		err = c.dc.Stroke()
	default:
		err = c.dc.Fill()
	}
	if err != nil {
		c.logger.Debug("paint failed", "style", p.Style, "error", err)
		c.dc.ClearPath()
	}
}
