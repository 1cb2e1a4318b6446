package engine

import (
	"encoding/json"

	"github.com/inamate/canvas/internal/geom"
)

// DrawCommand is a single drawing operation for a client to execute on a
// Canvas2D context. Transform is the absolute affine matrix in effect.
type DrawCommand struct {
	Op        string       `json:"op"` // "clear", "rect", "oval", "line", "path", "circle", "text"
	Transform []float64    `json:"transform,omitempty"`
	Rect      *geom.Rect   `json:"rect,omitempty"`
	Radii     []float64    `json:"radii,omitempty"`
	Points    []geom.Point `json:"points,omitempty"`
	Closed    bool         `json:"closed,omitempty"`
	Radius    float64      `json:"radius,omitempty"`
	Text      string       `json:"text,omitempty"`
	FontSize  float64      `json:"fontSize,omitempty"`
	Color     string       `json:"color,omitempty"` // for "clear"
	Paint     *Paint       `json:"paint,omitempty"`
}

// Recorder is a Renderer that records commands in painter's order instead
// of drawing them.
type Recorder struct {
	// Measurer answers MeasureText; nil falls back to an estimate.
	Measurer TextMeasurer

	current  geom.Matrix2D
	stack    []geom.Matrix2D
	commands []DrawCommand
}

// NewRecorder creates an empty recorder.
func NewRecorder(m TextMeasurer) *Recorder {
	return &Recorder{Measurer: m, current: geom.Identity()}
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops recorded commands and the transform stack.
func (r *Recorder) Reset() {
	r.commands = nil
	r.stack = nil
	r.current = geom.Identity()
}

// Transform returns the current transform.
func (r *Recorder) Transform() geom.Matrix2D {
	return r.current
}

func (r *Recorder) emit(cmd DrawCommand, p *Paint) {
	cmd.Transform = r.current.ToSlice()
	if p != nil {
		pc := *p
		if p.Dash != nil {
			pc.Dash = append([]float64(nil), p.Dash...)
		}
		cmd.Paint = &pc
	}
	r.commands = append(r.commands, cmd)
}

// Clear starts a new frame: earlier commands and transforms are dropped.
func (r *Recorder) Clear(color string) {
	r.Reset()
	r.commands = append(r.commands, DrawCommand{Op: "clear", Color: color})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.current)
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.current = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Recorder) Translate(x, y float64) {
	r.current = r.current.Multiply(geom.Translate(x, y))
}

func (r *Recorder) Rotate(degrees float64) {
	r.current = r.current.Multiply(geom.Rotate(degrees))
}

func (r *Recorder) Scale(sx, sy float64) {
	r.current = r.current.Multiply(geom.Scale(sx, sy))
}

func (r *Recorder) DrawRect(rect geom.Rect, radii [4]float64, p Paint) {
	cmd := DrawCommand{Op: "rect", Rect: &rect}
	if radii != [4]float64{} {
		cmd.Radii = radii[:]
	}
	r.emit(cmd, &p)
}

func (r *Recorder) DrawOval(rect geom.Rect, p Paint) {
	r.emit(DrawCommand{Op: "oval", Rect: &rect}, &p)
}

func (r *Recorder) DrawLine(a, b geom.Point, p Paint) {
	r.emit(DrawCommand{Op: "line", Points: []geom.Point{a, b}}, &p)
}

func (r *Recorder) DrawPath(points []geom.Point, closed bool, p Paint) {
	pts := make([]geom.Point, len(points))
	copy(pts, points)
	r.emit(DrawCommand{Op: "path", Points: pts, Closed: closed}, &p)
}

func (r *Recorder) DrawCircle(center geom.Point, radius float64, p Paint) {
	r.emit(DrawCommand{Op: "circle", Points: []geom.Point{center}, Radius: radius}, &p)
}

func (r *Recorder) DrawText(text string, origin geom.Point, size float64, p Paint) error {
	r.emit(DrawCommand{Op: "text", Points: []geom.Point{origin}, Text: text, FontSize: size}, &p)
	return nil
}

func (r *Recorder) MeasureText(text string, size float64) (float64, error) {
	if r.Measurer == nil {
		return approxTextWidth(text, size), nil
	}
	return r.Measurer.MeasureText(text, size)
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
