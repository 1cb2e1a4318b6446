package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotatePointRoundTrip(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {-35.5, 12.25}, {1e4, -3e3}}
	centers := []Point{{0, 0}, {50, 50}, {-12, 7.5}}
	for _, p := range points {
		for _, c := range centers {
			for deg := -720.0; deg <= 720; deg += 17.5 {
				x, y := RotatePoint(p.X, p.Y, c.X, c.Y, deg)
				bx, by := RotatePoint(x, y, c.X, c.Y, -deg)
				assert.InDelta(t, p.X, bx, 1e-6, "x for %v about %v by %v", p, c, deg)
				assert.InDelta(t, p.Y, by, 1e-6, "y for %v about %v by %v", p, c, deg)
			}
		}
	}
}

func TestRotatePointQuarterTurn(t *testing.T) {
	x, y := RotatePoint(10, 0, 0, 0, 90)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)

	x, y = RotatePoint(20, 10, 10, 10, 180)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 10, y, 1e-9)
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   float64
	}{
		{"east", 1, 0, 0},
		{"south", 0, 1, 90},
		{"north", 0, -1, -90},
		{"west", -1, 0, 180},
		{"west negative zero", -1, math.Copysign(0, -1), 180},
		{"south-east", 1, 1, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angle(0, 0, tt.px, tt.py)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Greater(t, got, -180.0)
			assert.LessOrEqual(t, got, 180.0)
		})
	}
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(0, 0, 3, 4))
	assert.Equal(t, 0.0, Distance(7, 7, 7, 7))
}

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	assert.InDelta(t, 3, SegmentDistance(Pt(5, 3), a, b), 1e-9)
	assert.InDelta(t, 5, SegmentDistance(Pt(-3, 4), a, b), 1e-9)
	assert.InDelta(t, 2, SegmentDistance(Pt(2, 0), a, a), 1e-9)
}

func TestBoundsOf(t *testing.T) {
	r := BoundsOf([]Point{{3, 4}, {-1, 10}, {5, -2}})
	assert.Equal(t, Rect{X: -1, Y: -2, Width: 6, Height: 12}, r)
	assert.True(t, BoundsOf(nil).IsEmpty())
}
