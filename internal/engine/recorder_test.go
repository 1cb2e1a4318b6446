package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/geom"
)

func TestRecorderTransformStack(t *testing.T) {
	r := NewRecorder(nil)
	r.Translate(10, 20)
	r.Save()
	r.Scale(2, 2)
	r.DrawCircle(geom.Pt(1, 1), 3, fillPaint("#FFFFFF"))
	r.Restore()
	r.DrawCircle(geom.Pt(1, 1), 3, fillPaint("#FFFFFF"))
	r.Restore() // unbalanced restore is ignored

	cmds := r.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, []float64{2, 0, 0, 2, 10, 20}, cmds[0].Transform)
	assert.Equal(t, []float64{1, 0, 0, 1, 10, 20}, cmds[1].Transform)
}

func TestRecorderClearStartsNewFrame(t *testing.T) {
	r := NewRecorder(nil)
	r.Translate(5, 5)
	r.DrawLine(geom.Pt(0, 0), geom.Pt(1, 1), strokePaint("#000000", 1))
	r.Clear("#FFFFFF")
	r.DrawLine(geom.Pt(0, 0), geom.Pt(1, 1), strokePaint("#000000", 1))

	cmds := r.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "clear", cmds[0].Op)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, cmds[1].Transform)
}

func TestRecorderCopiesInputs(t *testing.T) {
	r := NewRecorder(nil)
	pts := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}
	p := strokePaint("#000000", 1)
	p.Dash = []float64{4, 2}
	r.DrawPath(pts, false, p)
	pts[0].X = 99
	p.Dash[0] = 99

	cmd := r.Commands()[0]
	assert.Equal(t, 1.0, cmd.Points[0].X)
	assert.Equal(t, 4.0, cmd.Paint.Dash[0])
}

func TestDrawCommandsToJSON(t *testing.T) {
	s, err := DrawCommandsToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)

	r := NewRecorder(nil)
	r.DrawRect(geom.Rect{Width: 4, Height: 2}, [4]float64{1, 1, 1, 1}, fillPaint("#ABCDEF"))
	s, err = DrawCommandsToJSON(r.Commands())
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "rect", decoded[0]["op"])
	assert.Equal(t, "#ABCDEF", decoded[0]["paint"].(map[string]any)["color"])
	assert.Len(t, decoded[0]["radii"], 4)
}

func TestRecorderMeasureFallback(t *testing.T) {
	r := NewRecorder(nil)
	w, err := r.MeasureText("abcd", 10)
	require.NoError(t, err)
	assert.InDelta(t, 24, w, 1e-9)

	r = NewRecorder(fixedMeasurer{width: 7})
	w, err = r.MeasureText("abcd", 10)
	require.NoError(t, err)
	assert.Equal(t, 7.0, w)
}
