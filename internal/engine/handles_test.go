package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/canvas/internal/document"
	"github.com/inamate/canvas/internal/geom"
)

func TestGenerateHandlesAxisAligned(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 100, 50)
	handles := GenerateHandles(o, 24)
	require.Len(t, handles, 12)

	want := []geom.Point{
		{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 25},
		{X: 100, Y: 50}, {X: 50, Y: 50}, {X: 0, Y: 50}, {X: 0, Y: 25},
	}
	for i, w := range want {
		assert.Equal(t, HandlePosition(i), handles[i].Position)
		assert.Equal(t, ActionScale, handles[i].Action)
		assert.InDelta(t, w.X, handles[i].X, 1e-9, handles[i].Position.String())
		assert.InDelta(t, w.Y, handles[i].Y, 1e-9, handles[i].Position.String())
	}

	for _, h := range handles[8:] {
		assert.Equal(t, ActionRotate, h.Action)
		nx, ny := h.Position.Normal()
		corner := HandleWorld(o, h.Position)
		assert.InDelta(t, 24, geom.Distance(corner.X, corner.Y, h.X, h.Y), 1e-9)
		// Zones sit outside their corner.
		assert.Greater(t, (h.X-corner.X)*nx, 0.0)
		assert.Greater(t, (h.Y-corner.Y)*ny, 0.0)
	}
}

func TestHandlesFollowRotationAndScale(t *testing.T) {
	o := testObject(document.KindRectangle, -50, -25, 50, 25)
	o.Rotation = 90
	o.ScaleX = 2

	tr := HandleWorld(o, HandleTopRight)
	// Local (100, -25) turned a quarter.
	assert.InDelta(t, 25, tr.X, 1e-9)
	assert.InDelta(t, 100, tr.Y, 1e-9)

	for _, h := range GenerateHandles(o, 24)[:8] {
		opp := HandleWorld(o, h.Position.Opposite())
		mid := geom.Pt((h.X+opp.X)/2, (h.Y+opp.Y)/2)
		assert.InDelta(t, 0, mid.X, 1e-9)
		assert.InDelta(t, 0, mid.Y, 1e-9)
	}
}

func TestHandleOpposite(t *testing.T) {
	assert.Equal(t, HandleBottomRight, HandleTopLeft.Opposite())
	assert.Equal(t, HandleBottomCenter, HandleTopCenter.Opposite())
	assert.Equal(t, HandleBottomLeft, HandleTopRight.Opposite())
	assert.Equal(t, HandleMiddleLeft, HandleMiddleRight.Opposite())
	assert.Equal(t, HandleTopRight, HandleBottomLeft.Opposite())
	assert.True(t, HandleBottomLeft.IsCorner())
	assert.False(t, HandleMiddleLeft.IsCorner())
	assert.False(t, HandleRotateTopLeft.IsCorner())
}

func TestHitTestHandles(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 100, 100)
	handles := GenerateHandles(o, 24)
	radii := HandleRadii{Rotate: 28, Scale: 14, Grip: 7}

	tests := []struct {
		name   string
		p      geom.Point
		want   HandlePosition
		action HandleAction
	}{
		{"on the corner handle", geom.Pt(0, 0), HandleTopLeft, ActionScale},
		{"on the edge handle", geom.Pt(100, 52), HandleMiddleRight, ActionScale},
		{"inside near the corner", geom.Pt(6, 6), HandleTopLeft, ActionScale},
		{"outside the corner beyond the grip", geom.Pt(-10, -10), HandleRotateTopLeft, ActionRotate},
		// Within the scale radius too, but rotation wins outside the outline.
		{"outside within scale range", geom.Pt(-5, -12), HandleRotateTopLeft, ActionRotate},
		{"rotation zone center", geom.Pt(100+24/math.Sqrt2, 100+24/math.Sqrt2), HandleRotateBottomRight, ActionRotate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := HitTestHandles(tt.p, handles, radii)
			require.True(t, ok)
			assert.Equal(t, tt.want, h.Position)
			assert.Equal(t, tt.action, h.Action)
		})
	}

	_, ok := HitTestHandles(geom.Pt(50, 50), handles, radii)
	assert.False(t, ok)
}

func TestHitTestHandlesRotatedObjectOutline(t *testing.T) {
	o := testObject(document.KindRectangle, 0, 0, 100, 100)
	o.Rotation = 45
	handles := GenerateHandles(o, 24)
	radii := HandleRadii{Rotate: 28, Scale: 14, Grip: 7}

	tl := HandleWorld(o, HandleTopLeft)
	h, ok := HitTestHandles(tl, handles, radii)
	require.True(t, ok)
	assert.Equal(t, HandleTopLeft, h.Position)

	// Just inside the rotated outline next to the top-left corner.
	in := geom.Pt(50, 50).Add(tl.Sub(geom.Pt(50, 50)).Mul(0.85))
	h, ok = HitTestHandles(in, handles, radii)
	require.True(t, ok)
	assert.Equal(t, ActionScale, h.Action)
}
