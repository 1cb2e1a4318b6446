package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

func ops(cmds []DrawCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func TestRenderOrder(t *testing.T) {
	a := testObject(document.KindRectangle, 0, 0, 10, 10)
	hidden := testObject(document.KindEllipse, 0, 0, 10, 10)
	hidden.Visible = false
	b := testObject(document.KindEllipse, 20, 0, 30, 10)
	b.Stroke = "#000000"
	b.StrokeWidth = 2

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{
		Objects:     []document.Object{a, hidden, b},
		View:        document.DefaultView(),
		Background:  "#101010",
		Selected:    2,
		Hovered:     0,
		ShowHandles: true,
		Preview:     &Preview{Kind: document.KindRectangle, Start: geom.Pt(0, 0), End: geom.Pt(5, 5)},
		Paint:       document.PaintDefaults{Fill: "#00FF00", Stroke: document.Transparent},
	})

	want := []string{"clear", "rect", "oval", "oval", "path", "path"}
	for i := 0; i < 8; i++ {
		want = append(want, "circle", "circle", "circle")
	}
	want = append(want, "rect")
	assert.Equal(t, want, ops(rec.Commands()))

	cmds := rec.Commands()
	assert.Equal(t, "#101010", cmds[0].Color)
	assert.Equal(t, PaintFill, cmds[2].Paint.Style)
	assert.Equal(t, PaintStroke, cmds[3].Paint.Style)
	// Hover outline is dashed, the selection outline solid.
	assert.NotEmpty(t, cmds[4].Paint.Dash)
	assert.True(t, cmds[4].Closed)
	assert.Empty(t, cmds[5].Paint.Dash)
	assert.True(t, cmds[5].Closed)
	assert.Equal(t, selectionColor, cmds[5].Paint.Color)
	assert.Equal(t, "#00FF00", cmds[len(cmds)-1].Paint.Color)
}

func TestRenderSkipsInvisiblePaint(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 10, 10)
	o.Fill = document.Transparent
	o.Stroke = "#FF0000"
	o.StrokeWidth = 0
	line := testObject(document.KindLine, 0, 0, 10, 10)
	line.Stroke = "#00000000"
	line.StrokeWidth = 3

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{
		Objects:  []document.Object{o, line},
		View:     document.DefaultView(),
		Selected: -1,
		Hovered:  -1,
	})
	assert.Equal(t, []string{"clear"}, ops(rec.Commands()))
}

func TestRenderAppliesViewAndObjectTransforms(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 20, 10)
	o.Rotation = 90
	o.ScaleX = 2

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{
		Objects:  []document.Object{o},
		View:     document.ViewTransform{Scale: 2, OffsetX: 100, OffsetY: 50},
		Selected: -1,
		Hovered:  -1,
	})
	cmds := rec.Commands()
	require.Len(t, cmds, 2)

	var m geom.Matrix2D
	copy(m[:], cmds[1].Transform)
	view := document.ViewTransform{Scale: 2, OffsetX: 100, OffsetY: 50}
	expect := view.Matrix().Multiply(o.Matrix())
	for i := range m {
		assert.InDelta(t, expect[i], m[i], 1e-9)
	}
	// The rest rect top-left lands where the object's corner is on screen.
	p := m.Apply(geom.Pt(0, 0))
	q := view.ToScreen(o.Corners()[0])
	assert.InDelta(t, q.X, p.X, 1e-9)
	assert.InDelta(t, q.Y, p.Y, 1e-9)
}

func TestRenderShadowBeforeFill(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 40, 20)
	o.Shadow = &document.Shadow{Enabled: true, OffsetX: 3, OffsetY: 4, Blur: 6, Spread: 2, Color: "#000000"}

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{Objects: []document.Object{o}, Selected: -1, Hovered: -1})
	cmds := rec.Commands()
	require.Len(t, cmds, 3)

	shadow := cmds[1]
	assert.Equal(t, "#000000", shadow.Paint.Color)
	assert.Equal(t, 6.0, shadow.Paint.Blur)
	assert.Equal(t, geom.Rect{X: -2, Y: -2, Width: 44, Height: 24}, *shadow.Rect)
	assert.Equal(t, []float64{1, 0, 0, 1, 3, 4}, shadow.Transform)

	fill := cmds[2]
	assert.Equal(t, "#FF0000", fill.Paint.Color)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 40, Height: 20}, *fill.Rect)
}

func TestRenderClampsCornerRadii(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 40, 20)
	o.CornerRadius = document.CornerRadius{TopLeft: 50, TopRight: 4, BottomRight: 0, BottomLeft: -3, Independent: true}

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{Objects: []document.Object{o}, Selected: -1, Hovered: -1})
	assert.Equal(t, []float64{10, 4, 0, 0}, rec.Commands()[1].Radii)
}

type failingText struct {
	*Recorder
}

func (f failingText) DrawText(string, geom.Point, float64, Paint) error {
	return errors.New("font unavailable")
}

func TestRenderContinuesPastTextFailure(t *testing.T) {
	txt := testObject(document.KindText, 0, 0, 50, 20)
	txt.Text = "hi"
	after := testObject(document.KindRectangle, 0, 0, 5, 5)

	r := failingText{NewRecorder(nil)}
	RenderPass{}.Render(r, Frame{Objects: []document.Object{txt, after}, Selected: -1, Hovered: -1})
	assert.Equal(t, []string{"clear", "rect"}, ops(r.Commands()))
}

func TestRenderTextBaseline(t *testing.T) {
	txt := testObject(document.KindText, 10, 20, 60, 40)
	txt.Text = "hi"
	txt.FontSize = 20

	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{Objects: []document.Object{txt}, Selected: -1, Hovered: -1})
	cmd := rec.Commands()[1]
	assert.Equal(t, "text", cmd.Op)
	assert.Equal(t, geom.Pt(10, 35), cmd.Points[0])
	assert.Equal(t, 20.0, cmd.FontSize)
}

func TestRenderPenPreviewWithRubberBand(t *testing.T) {
	rec := NewRecorder(nil)
	RenderPass{}.Render(rec, Frame{
		Selected: -1,
		Hovered:  -1,
		Paint:    document.PaintDefaults{Stroke: "#000000", StrokeWidth: 2},
		Preview: &Preview{
			Kind:      document.KindPen,
			Points:    []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
			Cursor:    geom.Pt(20, 20),
			HasCursor: true,
		},
	})
	got := ops(rec.Commands())
	assert.Equal(t, []string{"clear", "path", "line", "circle", "circle", "circle", "circle"}, got)
}

func TestHandlesHiddenForLockedOrWhenDisabled(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 10, 10)
	rec := NewRecorder(nil)

	RenderPass{}.Render(rec, Frame{Objects: []document.Object{o}, Selected: 0, Hovered: -1})
	assert.Equal(t, []string{"clear", "rect", "path"}, ops(rec.Commands()))

	o.Locked = true
	RenderPass{}.Render(rec, Frame{Objects: []document.Object{o}, Selected: 0, Hovered: -1, ShowHandles: true})
	assert.Equal(t, []string{"clear", "rect", "path"}, ops(rec.Commands()))
}
