package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/engine"
	"github.com/inamate/canvas/internal/geom"
)

func newCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := New(w, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func pixel(c *Canvas, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(c.Image().At(x, y)).(color.NRGBA)
}

func TestNewRejectsEmptySize(t *testing.T) {
	_, err := New(0, 10)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestClearFillsBackground(t *testing.T) {
	c := newCanvas(t, 8, 8)
	c.Clear("#0000FF")
	p := pixel(c, 4, 4)
	assert.Equal(t, uint8(0), p.R)
	assert.Equal(t, uint8(255), p.B)
	assert.Equal(t, uint8(255), p.A)
}

func TestFillRectFollowsTransform(t *testing.T) {
	c := newCanvas(t, 64, 64)
	c.Clear("#FFFFFF")
	c.Save()
	c.Translate(20, 20)
	c.Scale(2, 2)
	c.DrawRect(geom.Rect{Width: 10, Height: 10}, [4]float64{}, engine.Paint{Style: engine.PaintFill, Color: "#FF0000"})
	c.Restore()

	inside := pixel(c, 30, 30)
	assert.Greater(t, inside.R, uint8(200))
	assert.Less(t, inside.G, uint8(50))

	outside := pixel(c, 10, 10)
	assert.Equal(t, uint8(255), outside.G)
}

func TestTransparentPaintLeavesPixels(t *testing.T) {
	c := newCanvas(t, 16, 16)
	c.Clear("#FFFFFF")
	c.DrawOval(geom.Rect{Width: 16, Height: 16}, engine.Paint{Style: engine.PaintFill, Color: document.Transparent})
	p := pixel(c, 8, 8)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, p)
}

func TestMeasureTextScalesWithSize(t *testing.T) {
	c := newCanvas(t, 8, 8)
	small, err := c.MeasureText("Hello", 10)
	require.NoError(t, err)
	large, err := c.MeasureText("Hello", 20)
	require.NoError(t, err)

	assert.Greater(t, small, 0.0)
	assert.Greater(t, large, small)

	_, err = c.MeasureText("Hello", 0)
	assert.Error(t, err)
}

func TestRenderSampleSceneToPNG(t *testing.T) {
	c := newCanvas(t, 320, 240)
	store := document.NewMemoryStore()
	e := engine.New(store, engine.WithRenderer(c))
	e.AddObjects(document.NewSampleScene()...)

	var buf bytes.Buffer
	require.NoError(t, c.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}
