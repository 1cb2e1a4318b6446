package engine

import (
	"github.com/inamate/canvas/internal/geom"
)

type PaintStyle string

const (
	PaintFill   PaintStyle = "fill"
	PaintStroke PaintStyle = "stroke"
)

// Paint describes how a primitive is drawn. Color is a hex string or
// "transparent"; Blur is a blur radius in current user units.
type Paint struct {
	Style       PaintStyle `json:"style"`
	Color       string     `json:"color"`
	StrokeWidth float64    `json:"strokeWidth,omitempty"`
	Blur        float64    `json:"blur,omitempty"`
	Dash        []float64  `json:"dash,omitempty"`
	Round       bool       `json:"round,omitempty"`
}

func fillPaint(color string) Paint {
	return Paint{Style: PaintFill, Color: color}
}

func strokePaint(color string, width float64) Paint {
	return Paint{Style: PaintStroke, Color: color, StrokeWidth: width}
}

// TextMeasurer reports the advance width of a string at a font size.
type TextMeasurer interface {
	MeasureText(text string, size float64) (float64, error)
}

// Renderer is an immediate-mode 2D surface. Transform calls compose onto
// the current transform, Save and Restore push and pop it.
type Renderer interface {
	TextMeasurer

	Clear(color string)
	Save()
	Restore()
	Translate(x, y float64)
	Rotate(degrees float64)
	Scale(sx, sy float64)

	// DrawRect draws r with per-corner radii, clockwise from the top-left.
	DrawRect(r geom.Rect, radii [4]float64, p Paint)
	DrawOval(r geom.Rect, p Paint)
	DrawLine(a, b geom.Point, p Paint)
	DrawPath(points []geom.Point, closed bool, p Paint)
	DrawCircle(center geom.Point, radius float64, p Paint)
	// DrawText draws text with its baseline starting at origin.
	DrawText(text string, origin geom.Point, size float64, p Paint) error
}

// approxTextWidth is the width estimate used when no measurer can answer.
func approxTextWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.6
}
